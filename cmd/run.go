package main

import (
	"io/fs"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/richinsley/glpipeline/configuration"
	"github.com/richinsley/glpipeline/encoder"
	"github.com/richinsley/glpipeline/gldevice"
	"github.com/richinsley/glpipeline/glfwcontext"
	"github.com/richinsley/glpipeline/modes"
	"github.com/richinsley/glpipeline/options"
	"github.com/richinsley/glpipeline/pipeline"
	"github.com/richinsley/glpipeline/renderer"
	"github.com/richinsley/glpipeline/shaders"
	"github.com/richinsley/glpipeline/translator"
	"github.com/spf13/cobra"
)

var runOptions *options.RunOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open a window and run a pipeline",
	Long: `Runs the selected pipeline every frame until the window is closed or Escape is pressed.
With --record the window is hidden and the frames are encoded with ffmpeg.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runOptions.Validate(); err != nil {
			log.Fatalf("Invalid options: %v", err)
		}
		if err := runPipeline(runOptions); err != nil {
			log.Fatalf("Pipeline failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runOptions = options.Register(runCmd)
}

func runPipeline(o *options.RunOptions) error {
	cfg, err := configuration.Load(*o.Config)
	if err != nil {
		return err
	}
	o.Apply(cfg)

	if err := glfwcontext.InitGraphics(); err != nil {
		return err
	}
	defer glfwcontext.TerminateGraphics()

	// Recording renders into a hidden window
	ctx, err := glfwcontext.New(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, !o.Recording())
	if err != nil {
		return err
	}
	defer ctx.Shutdown()

	device, err := gldevice.New()
	if err != nil {
		return err
	}
	width, height := ctx.GetFramebufferSize()
	device.Viewport(0, 0, width, height)
	ctx.SetResizeCallback(func(w, h int) {
		device.Viewport(0, 0, w, h)
	})

	env := modes.Env{
		Device:     device,
		Surface:    ctx,
		Config:     cfg,
		Shaders:    shaderFS(*o.ShaderDir),
		Translator: translator.ESSL{},
	}

	if *o.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		env.Metrics = pipeline.NewMetrics(reg)
		go serveMetrics(*o.MetricsAddr, reg)
	}

	var enc *encoder.Encoder
	if o.Recording() {
		enc, err = encoder.New(encoder.Options{
			OutputFile: *o.Record,
			Width:      width,
			Height:     height,
			FPS:        *o.FPS,
			Codec:      *o.Codec,
			FFmpegPath: *o.FFmpegPath,
		})
		if err != nil {
			return err
		}
		defer func() {
			if enc != nil {
				enc.Close()
			}
		}()
		env.Recording = &modes.Recording{
			Writer: enc,
			Width:  width,
			Height: height,
			Frames: *o.Frames,
		}
	}

	log.Printf("Selected mode: %s", *o.Mode)
	mode, err := modes.Build(*o.Mode, env)
	if err != nil {
		return err
	}
	defer mode.Destroy()

	r := renderer.NewRenderer(ctx, mode.Pipeline)
	if err := r.Run(); err != nil {
		return err
	}

	if enc != nil {
		err := enc.Close()
		enc = nil
		if err != nil {
			return err
		}
		log.Printf("Successfully rendered to %s", *o.Record)
	}
	return nil
}

func shaderFS(dir string) fs.FS {
	if dir == "" {
		return shaders.FS
	}
	return os.DirFS(dir)
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	log.Printf("Serving metrics on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("Metrics server stopped: %v", err)
	}
}
