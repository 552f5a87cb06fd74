package options

import (
	"fmt"

	"github.com/richinsley/glpipeline/configuration"
	"github.com/spf13/cobra"
)

// RunOptions are the command line settings of the run command. Fields are
// pointers into the command's flag set.
type RunOptions struct {
	Mode        *string
	Width       *int // Overrides window.width from the configuration when non-zero
	Height      *int // Overrides window.height from the configuration when non-zero
	Config      *string
	ShaderDir   *string // Directory holding shader sources. Empty uses the embedded shaders.
	Record      *string // Output file. Recording renders into a hidden window.
	Frames      *int
	FPS         *int
	Codec       *string
	FFmpegPath  *string
	MetricsAddr *string
}

// Register adds the run flags to cmd and returns options bound to them.
func Register(cmd *cobra.Command) *RunOptions {
	f := cmd.Flags()
	return &RunOptions{
		Mode:        f.String("mode", "square", "Pipeline to run (square, cylinder)"),
		Width:       f.Int("width", 0, "Window width (default from configuration)"),
		Height:      f.Int("height", 0, "Window height (default from configuration)"),
		Config:      f.String("config", "", "Path to a YAML configuration file"),
		ShaderDir:   f.String("shader-dir", "", "Directory containing shader sources"),
		Record:      f.String("record", "", "Record to this video file instead of showing a window"),
		Frames:      f.Int("frames", 300, "Number of frames to record, 0 records until closed"),
		FPS:         f.Int("fps", 60, "Frames per second of the recording"),
		Codec:       f.String("codec", "h264", "Recording codec (h264, hevc)"),
		FFmpegPath:  f.String("ffmpeg", "", "Path to ffmpeg executable"),
		MetricsAddr: f.String("metrics-addr", "", "Serve prometheus metrics on this address, e.g. :9090"),
	}
}

// Recording reports whether frames go to a video file.
func (o *RunOptions) Recording() bool {
	return o.Record != nil && *o.Record != ""
}

// Validate checks the flag values that the configuration cannot catch.
func (o *RunOptions) Validate() error {
	if *o.Width < 0 || *o.Height < 0 {
		return fmt.Errorf("invalid window size %dx%d", *o.Width, *o.Height)
	}
	if o.Recording() {
		if *o.FPS <= 0 {
			return fmt.Errorf("invalid frame rate %d", *o.FPS)
		}
		if *o.Frames < 0 {
			return fmt.Errorf("invalid frame count %d", *o.Frames)
		}
	}
	return nil
}

// Apply overrides the configured window size with the flags that were set.
func (o *RunOptions) Apply(cfg *configuration.Config) {
	if *o.Width > 0 {
		cfg.Window.Width = *o.Width
	}
	if *o.Height > 0 {
		cfg.Window.Height = *o.Height
	}
}
