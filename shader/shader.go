package shader

import (
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/richinsley/glpipeline/graphics"
)

// Dialect is the GLSL flavour a program's sources are written in.
type Dialect string

const (
	// DialectGLSL410 sources are compiled as is.
	DialectGLSL410 Dialect = "glsl410"
	// DialectESSL300 sources are translated to GLSL 4.10 before compiling.
	DialectESSL300 Dialect = "essl300"
)

// ParseDialect validates a dialect name. The empty string means GLSL 4.10.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case "", DialectGLSL410:
		return DialectGLSL410, nil
	case DialectESSL300:
		return DialectESSL300, nil
	}
	return "", fmt.Errorf("unknown shader dialect %q", s)
}

// Spec describes where a program's shader sources live.
type Spec struct {
	Dialect  Dialect
	Paths    map[graphics.ShaderKind]string
	Uniforms []string
}

// Translated is a source rewritten for the desktop GL compiler.
type Translated struct {
	Code string
	// Names maps declared variable names to the names in Code.
	Names map[string]string
}

// Translator rewrites a single shader source into GLSL 4.10.
type Translator interface {
	Translate(source string, kind graphics.ShaderKind) (*Translated, error)
}

// Load reads every shader source named by spec from fsys and returns the
// program description ready for graphics.Device.NewProgram. Sources written
// in ESSL are passed through tr. Any failure is a *graphics.ConstructionError.
func Load(fsys fs.FS, name string, spec Spec, tr Translator) (graphics.ProgramSource, error) {
	src := graphics.ProgramSource{
		Name:     name,
		Stages:   make(map[graphics.ShaderKind]string),
		Uniforms: make(map[string]string),
	}
	fail := func(op string, err error) (graphics.ProgramSource, error) {
		return graphics.ProgramSource{}, &graphics.ConstructionError{Op: op + " " + name, Err: err}
	}

	for _, kind := range []graphics.ShaderKind{graphics.VertexShader, graphics.FragmentShader} {
		if _, ok := spec.Paths[kind]; !ok {
			return fail("load program", fmt.Errorf("no %s shader configured", kind))
		}
	}
	if spec.Dialect == DialectESSL300 {
		if _, ok := spec.Paths[graphics.GeometryShader]; ok {
			return fail("load program", fmt.Errorf("geometry shaders cannot be written in %s", spec.Dialect))
		}
		if tr == nil {
			return fail("load program", fmt.Errorf("%s sources need a translator", spec.Dialect))
		}
	}

	names := make(map[string]string)
	for _, kind := range graphics.ShaderKinds {
		p, ok := spec.Paths[kind]
		if !ok {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Clean(p))
		if err != nil {
			return fail("read "+kind.String()+" shader", err)
		}
		code := string(data)

		if spec.Dialect == DialectESSL300 {
			out, err := tr.Translate(code, kind)
			if err != nil {
				return fail("translate "+kind.String()+" shader", err)
			}
			code = out.Code
			for k, v := range out.Names {
				names[k] = v
			}
		}
		src.Stages[kind] = code
	}

	for _, u := range spec.Uniforms {
		if mapped, ok := names[u]; ok {
			src.Uniforms[u] = mapped
		} else {
			src.Uniforms[u] = u
		}
	}
	return src, nil
}

// Kinds returns the shader kinds present in src in link order.
func Kinds(src graphics.ProgramSource) []graphics.ShaderKind {
	kinds := make([]graphics.ShaderKind, 0, len(src.Stages))
	for k := range src.Stages {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
