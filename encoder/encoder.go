package encoder

import (
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Options configures a recording.
type Options struct {
	OutputFile string
	Width      int
	Height     int
	FPS        int
	// Codec is "h264" (default) or "hevc".
	Codec string
	// FFmpegPath overrides the ffmpeg executable found on PATH.
	FFmpegPath string
}

// Encoder pipes raw RGBA frames into an ffmpeg process.
type Encoder struct {
	opts      Options
	frameSize int
	pipe      *io.PipeWriter
	done      chan error
	frames    int
}

// New starts ffmpeg and returns an encoder ready for WriteFrame.
func New(opts Options) (*Encoder, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid recording size %dx%d", opts.Width, opts.Height)
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", opts.FPS)
	}
	if opts.OutputFile == "" {
		return nil, fmt.Errorf("no output file")
	}

	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := getArgs(opts)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(opts.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if opts.FFmpegPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(opts.FFmpegPath)
	}

	e := &Encoder{
		opts:      opts,
		frameSize: opts.Width * opts.Height * 4,
		pipe:      pipeWriter,
		done:      make(chan error, 1),
	}

	log.Printf("Starting encoder: %s (%dx%d @ %d fps)", opts.OutputFile, opts.Width, opts.Height, opts.FPS)
	go func() {
		err := ffmpegCmd.Run()
		// Unblock a writer stuck on a dead process.
		pipeReader.CloseWithError(fmt.Errorf("ffmpeg exited: %v", err))
		e.done <- err
	}()
	return e, nil
}

// getArgs builds the ffmpeg arguments. Frames arrive bottom-up from the
// framebuffer, so the output is flipped.
func getArgs(opts Options) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"r":       fmt.Sprint(opts.FPS),
	}

	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}

	switch strings.ToLower(opts.Codec) {
	case "hevc", "h265":
		outputArgs["c:v"] = "libx265"
		if strings.HasSuffix(opts.OutputFile, ".mp4") {
			outputArgs["tag:v"] = "hvc1"
		}
	default:
		if runtime.GOOS == "darwin" {
			outputArgs["c:v"] = "h264_videotoolbox"
			outputArgs["b:v"] = "25M"
		} else {
			outputArgs["c:v"] = "libx264"
			outputArgs["preset"] = "veryfast"
		}
	}
	return
}

// WriteFrame sends one width*height RGBA frame to ffmpeg.
func (e *Encoder) WriteFrame(pixels []byte) error {
	if len(pixels) != e.frameSize {
		return fmt.Errorf("frame is %d bytes, expected %d", len(pixels), e.frameSize)
	}
	if _, err := e.pipe.Write(pixels); err != nil {
		return fmt.Errorf("failed to write frame to FFmpeg: %w", err)
	}
	e.frames++
	return nil
}

// Frames returns the number of frames written.
func (e *Encoder) Frames() int { return e.frames }

// Close signals end of stream and waits for ffmpeg to finish.
func (e *Encoder) Close() error {
	e.pipe.Close()
	err := <-e.done
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	log.Printf("Encoder finished: %d frames written to %s", e.frames, e.opts.OutputFile)
	return nil
}
