// Package configuration loads the environment specific settings: window
// defaults and where each shader program's sources live.
package configuration

import (
	_ "embed"
	"fmt"
	"os"
	"reflect"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/richinsley/glpipeline/graphics"
	"github.com/richinsley/glpipeline/shader"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfig []byte

type Config struct {
	Window   Window             `mapstructure:"window"`
	Programs map[string]Program `mapstructure:"programs"`
}

type Window struct {
	Title  string `mapstructure:"title"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// Program locates the sources of one shader program.
type Program struct {
	Dialect  shader.Dialect    `mapstructure:"dialect"`
	Uniforms []string          `mapstructure:"uniforms"`
	Shaders  map[string]string `mapstructure:"shaders"`
}

// Spec converts the program into a shader.Spec.
func (p Program) Spec() (shader.Spec, error) {
	spec := shader.Spec{
		Dialect:  p.Dialect,
		Paths:    make(map[graphics.ShaderKind]string, len(p.Shaders)),
		Uniforms: p.Uniforms,
	}
	if spec.Dialect == "" {
		spec.Dialect = shader.DialectGLSL410
	}
	for kind, path := range p.Shaders {
		k, err := graphics.ParseShaderKind(kind)
		if err != nil {
			return shader.Spec{}, err
		}
		spec.Paths[k] = path
	}
	return spec, nil
}

// Default returns the embedded configuration.
func Default() (*Config, error) {
	return Parse(defaultConfig)
}

// Load reads the configuration at path, or the embedded default when path
// is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML configuration.
func Parse(data []byte) (*Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  dialectHook,
		ErrorUnused: true,
		Result:      &cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func dialectHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(shader.Dialect("")) {
		return data, nil
	}
	return shader.ParseDialect(data.(string))
}

// Validate checks the window size and every program's shader kinds.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %d,%d", c.Window.Width, c.Window.Height)
	}
	for _, name := range c.ProgramNames() {
		if _, err := c.Programs[name].Spec(); err != nil {
			return fmt.Errorf("program %s: %w", name, err)
		}
	}
	return nil
}

// Program returns the named program's shader spec.
func (c *Config) Program(name string) (shader.Spec, error) {
	p, ok := c.Programs[name]
	if !ok {
		return shader.Spec{}, fmt.Errorf("no program named %q in configuration", name)
	}
	return p.Spec()
}

// ProgramNames returns the configured program names, sorted.
func (c *Config) ProgramNames() []string {
	names := make([]string, 0, len(c.Programs))
	for name := range c.Programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
