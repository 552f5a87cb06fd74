// Package modes assembles the named pipeline configurations.
package modes

import (
	"fmt"
	"io/fs"
	"log"
	"sort"

	"github.com/richinsley/glpipeline/configuration"
	"github.com/richinsley/glpipeline/graphics"
	"github.com/richinsley/glpipeline/pipeline"
	"github.com/richinsley/glpipeline/shader"
	"github.com/richinsley/glpipeline/stages"
)

// drawConfigs maps each mode to the drawing stage that follows the
// transform stage.
var drawConfigs = map[string]func() stages.DrawConfig{
	"square":   stages.SquareConfig,
	"cylinder": stages.CylinderConfig,
}

// Names returns the available modes, sorted.
func Names() []string {
	names := make([]string, 0, len(drawConfigs))
	for name := range drawConfigs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Recording appends a capture stage to a mode.
type Recording struct {
	Writer stages.FrameWriter
	Width  int
	Height int
	// Frames stops the run after this many frames; zero records until
	// the window closes.
	Frames int
}

// Env is everything a mode needs to build its stages.
type Env struct {
	Device     graphics.Device
	Surface    stages.Surface
	Config     *configuration.Config
	Shaders    fs.FS
	Translator shader.Translator
	Metrics    *pipeline.Metrics
	Recording  *Recording
}

// Mode is a built pipeline together with the GPU resources its stages own.
type Mode struct {
	Pipeline *pipeline.Pipeline
	draw     *stages.DrawStage
}

// Destroy releases the GPU resources owned by the mode's stages.
func (m *Mode) Destroy() {
	if m.draw != nil {
		m.draw.Destroy()
	}
}

// Build constructs the pipeline for the named mode. The stage list is fixed
// once built.
func Build(name string, env Env) (*Mode, error) {
	drawConfig, ok := drawConfigs[name]
	if !ok {
		return nil, &graphics.ConstructionError{
			Op:  "select pipeline",
			Err: fmt.Errorf("unknown mode %q (available: %v)", name, Names()),
		}
	}
	cfg := drawConfig()

	spec, err := env.Config.Program(cfg.Program)
	if err != nil {
		return nil, &graphics.ConstructionError{Op: "configure " + cfg.Name, Err: err}
	}
	src, err := shader.Load(env.Shaders, cfg.Program, spec, env.Translator)
	if err != nil {
		return nil, err
	}
	draw, err := stages.NewDrawStage(env.Device, cfg, src)
	if err != nil {
		return nil, err
	}

	list := []pipeline.Stage{
		stages.NewTransformStage(env.Surface),
		draw,
	}
	if r := env.Recording; r != nil {
		list = append(list, stages.NewCaptureStage(env.Device, env.Surface, r.Writer, r.Width, r.Height, r.Frames))
	}

	var opts []pipeline.Option
	if env.Metrics != nil {
		opts = append(opts, pipeline.WithMetrics(env.Metrics))
	}

	p := pipeline.New(name, list, opts...)
	log.Printf("Built %s pipeline: %v", name, p.StageNames())
	return &Mode{Pipeline: p, draw: draw}, nil
}
