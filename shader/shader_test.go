package shader

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/richinsley/glpipeline/graphics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFS = fstest.MapFS{
	"simple/simple.vert":     {Data: []byte("#version 300 es\nuniform mat4 mvpMatrix;\n")},
	"simple/simple.frag":     {Data: []byte("#version 300 es\nout vec4 c;\n")},
	"cylinder/cylinder.vert": {Data: []byte("#version 410 core\n")},
	"cylinder/cylinder.geom": {Data: []byte("#version 410 core\nuniform mat4 mvpMatrix;\n")},
	"cylinder/cylinder.frag": {Data: []byte("#version 410 core\n")},
}

type prefixTranslator struct {
	calls []graphics.ShaderKind
	err   error
}

func (p *prefixTranslator) Translate(source string, kind graphics.ShaderKind) (*Translated, error) {
	p.calls = append(p.calls, kind)
	if p.err != nil {
		return nil, p.err
	}
	return &Translated{
		Code:  "// translated\n" + source,
		Names: map[string]string{"mvpMatrix": "_umvpMatrix"},
	}, nil
}

func cylinderSpec() Spec {
	return Spec{
		Dialect: DialectGLSL410,
		Paths: map[graphics.ShaderKind]string{
			graphics.VertexShader:   "cylinder/cylinder.vert",
			graphics.GeometryShader: "cylinder/cylinder.geom",
			graphics.FragmentShader: "cylinder/cylinder.frag",
		},
		Uniforms: []string{"mvpMatrix"},
	}
}

func simpleSpec() Spec {
	return Spec{
		Dialect: DialectESSL300,
		Paths: map[graphics.ShaderKind]string{
			graphics.VertexShader:   "simple/simple.vert",
			graphics.FragmentShader: "simple/simple.frag",
		},
		Uniforms: []string{"mvpMatrix"},
	}
}

func TestLoad_Native(t *testing.T) {
	src, err := Load(testFS, "cylinder", cylinderSpec(), nil)
	require.NoError(t, err)

	assert.Equal(t, "cylinder", src.Name)
	assert.Equal(t, []graphics.ShaderKind{graphics.VertexShader, graphics.GeometryShader, graphics.FragmentShader}, Kinds(src))
	assert.Contains(t, src.Stages[graphics.GeometryShader], "uniform mat4 mvpMatrix")
	assert.Equal(t, map[string]string{"mvpMatrix": "mvpMatrix"}, src.Uniforms)
}

func TestLoad_Translated(t *testing.T) {
	tr := &prefixTranslator{}
	src, err := Load(testFS, "simple", simpleSpec(), tr)
	require.NoError(t, err)

	assert.Equal(t, []graphics.ShaderKind{graphics.VertexShader, graphics.FragmentShader}, tr.calls)
	assert.Contains(t, src.Stages[graphics.VertexShader], "// translated")
	assert.Equal(t, "_umvpMatrix", src.Uniforms["mvpMatrix"])
}

func TestLoad_Errors(t *testing.T) {
	missingFile := cylinderSpec()
	missingFile.Paths[graphics.FragmentShader] = "cylinder/missing.frag"

	noVertex := cylinderSpec()
	delete(noVertex.Paths, graphics.VertexShader)

	esslGeometry := simpleSpec()
	esslGeometry.Paths[graphics.GeometryShader] = "cylinder/cylinder.geom"

	tests := []struct {
		name    string
		program string
		spec    Spec
		tr   Translator
		msg  string
	}{
		{"missing file", "cylinder", missingFile, nil, "read fragment shader cylinder"},
		{"no vertex shader", "cylinder", noVertex, nil, "no vertex shader configured"},
		{"essl geometry", "simple", esslGeometry, &prefixTranslator{}, "geometry shaders cannot be written in essl300"},
		{"essl without translator", "simple", simpleSpec(), nil, "need a translator"},
		{"translation failure", "simple", simpleSpec(), &prefixTranslator{err: errors.New("syntax error")}, "translate vertex shader simple"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(testFS, tt.program, tt.spec, tt.tr)
			var ce *graphics.ConstructionError
			require.ErrorAs(t, err, &ce)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("")
	require.NoError(t, err)
	assert.Equal(t, DialectGLSL410, d)

	d, err = ParseDialect("essl300")
	require.NoError(t, err)
	assert.Equal(t, DialectESSL300, d)

	_, err = ParseDialect("hlsl")
	assert.Error(t, err)
}
