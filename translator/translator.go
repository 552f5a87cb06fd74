package translator

import (
	"context"
	"fmt"
	"sync"

	"github.com/richinsley/glpipeline/graphics"
	"github.com/richinsley/glpipeline/shader"
	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator *gst.ShaderTranslator
	initErr    error
	initOnce   sync.Once
)

// GetTranslator returns the process-wide ANGLE translator, creating it on
// first use. Creation compiles the translator module and is slow.
func GetTranslator() (*gst.ShaderTranslator, error) {
	initOnce.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, initErr
}

// ESSL translates OpenGL ES 3.00 shaders into desktop GLSL 4.10.
type ESSL struct{}

func (ESSL) Translate(source string, kind graphics.ShaderKind) (*shader.Translated, error) {
	var stage string
	switch kind {
	case graphics.VertexShader:
		stage = "vertex"
	case graphics.FragmentShader:
		stage = "fragment"
	default:
		return nil, fmt.Errorf("cannot translate %s shaders", kind)
	}

	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}
	out, err := t.TranslateShader(source, stage, gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return nil, fmt.Errorf("%s shader translation failed: %w", kind, err)
	}

	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		names[name] = v.MappedName
	}
	return &shader.Translated{Code: out.Code, Names: names}, nil
}
