package stages

import (
	"fmt"
	"log"

	"github.com/richinsley/glpipeline/graphics"
	"github.com/richinsley/glpipeline/pipeline"
)

// FrameWriter consumes tightly packed RGBA frames.
type FrameWriter interface {
	WriteFrame(pixels []byte) error
}

// CaptureStage reads back each rendered frame and hands it to a writer.
// Once MaxFrames frames have been written it asks the surface to close.
type CaptureStage struct {
	pipeline.Requirements
	device    graphics.Device
	surface   Surface
	writer    FrameWriter
	width     int
	height    int
	maxFrames int
	written   int
}

// NewCaptureStage captures width x height frames. maxFrames <= 0 captures
// until the window closes for another reason.
func NewCaptureStage(device graphics.Device, surface Surface, writer FrameWriter, width, height, maxFrames int) *CaptureStage {
	return &CaptureStage{
		Requirements: pipeline.Requirements{
			StageName: "Capture",
			Required:  []pipeline.Key{pipeline.KeyFrame},
		},
		device:    device,
		surface:   surface,
		writer:    writer,
		width:     width,
		height:    height,
		maxFrames: maxFrames,
	}
}

// Written returns the number of frames handed to the writer.
func (s *CaptureStage) Written() int { return s.written }

func (s *CaptureStage) Run(fs *pipeline.FrameState) error {
	if s.maxFrames > 0 && s.written >= s.maxFrames {
		s.surface.RequestClose()
		return nil
	}

	frame, err := fs.Scalar(pipeline.KeyFrame)
	if err != nil {
		return err
	}

	pixels, err := s.device.ReadPixels(s.width, s.height)
	if err != nil {
		return fmt.Errorf("read back frame %d: %w", int64(frame), err)
	}
	if err := s.writer.WriteFrame(pixels); err != nil {
		return fmt.Errorf("write frame %d: %w", int64(frame), err)
	}
	s.written++

	if s.maxFrames > 0 && s.written >= s.maxFrames {
		log.Printf("Captured %d frames, closing", s.written)
		s.surface.RequestClose()
	}
	return nil
}
