package renderer

import (
	"log"

	"github.com/richinsley/glpipeline/graphics"
	"github.com/richinsley/glpipeline/pipeline"
)

// Renderer drives a pipeline from a window's frame loop.
type Renderer struct {
	context  graphics.Context
	pipeline *pipeline.Pipeline
}

func NewRenderer(ctx graphics.Context, p *pipeline.Pipeline) *Renderer {
	return &Renderer{
		context:  ctx,
		pipeline: p,
	}
}

// Run renders frames until the window is asked to close. Every stage of a
// frame runs before the close flag is checked again. A stage failure stops
// the loop and is returned.
func (r *Renderer) Run() error {
	startTime := r.context.Time()
	log.Printf("Running pipeline %s: %v", r.pipeline.Name(), r.pipeline.StageNames())

	for !r.context.ShouldClose() {
		if err := r.pipeline.RunFrame(r.context.Input()); err != nil {
			log.Printf("Frame %d failed: %v", r.pipeline.Frames(), err)
			return err
		}
		r.context.EndFrame()
	}

	elapsed := r.context.Time() - startTime
	log.Printf("Rendered %d frames in %.2fs", r.pipeline.Frames(), elapsed)
	return nil
}

// Shutdown destroys the window. Stage resources are released by their owner.
func (r *Renderer) Shutdown() {
	r.context.Shutdown()
}
