package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nvr-ai/motion-strip/config"
	"github.com/nvr-ai/motion-strip/controller"
	"github.com/nvr-ai/motion-strip/images"
	"github.com/nvr-ai/motion-strip/motion"
	"github.com/nvr-ai/motion-strip/profiler"
	"github.com/nvr-ai/motion-strip/util"
)

// Supported file extensions
var supportedVideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv"}

// InputType represents the type of input being processed
type InputType int

const (
	InputCamera InputType = iota
	InputVideo
	InputFrames
)

// InputConfig holds the input configuration
type InputConfig struct {
	Type     InputType
	Path     string
	DeviceID int
}

func main() {
	// Runs after every other deferred cleanup.
	status := 0
	defer func() {
		if status != 0 {
			os.Exit(status)
		}
	}()

	var (
		configPath     string
		videoPath      string
		framesDir      string
		deviceID       int
		exportDir      string
		exportFormat   string
		thumbnailWidth uint
		maxFrames      int
		debug          bool
		showWindow     bool
		verbose        bool
	)
	flag.StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	flag.StringVar(&videoPath, "video", "", "Path to video file (.mp4, .avi, .mov, .mkv)")
	flag.StringVar(&framesDir, "frames", "", "Directory of numbered still frames")
	flag.IntVar(&deviceID, "device", 0, "Camera device id, used when neither -video nor -frames is set")
	flag.StringVar(&exportDir, "export-dir", "", "Write composite strips into a session directory below this one")
	flag.StringVar(&exportFormat, "export-format", "", "Strip file format: jpeg, png or webp")
	flag.UintVar(&thumbnailWidth, "thumbnail-width", 0, "Scale written strips to this width")
	flag.IntVar(&maxFrames, "max-frames", 0, "Stop after this many frames")
	flag.BoolVar(&debug, "debug", false, "Start with the segmentation windows shown")
	flag.BoolVar(&showWindow, "show-window", true, "Show the result windows")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("loading configuration")
		}
	}

	// Flags override the file.
	if exportDir != "" {
		cfg.Export.Enabled = true
		cfg.Export.Dir = exportDir
	}
	if exportFormat != "" {
		format, ok := images.ParseImageFormat(exportFormat)
		if !ok {
			log.Fatal().Str("format", exportFormat).Msg("unsupported export format")
		}
		cfg.Export.Format = format
	}
	if thumbnailWidth > 0 {
		cfg.Export.ThumbnailWidth = thumbnailWidth
	}
	if maxFrames > 0 {
		cfg.Loop.MaxFrames = maxFrames
	}
	if debug {
		cfg.Loop.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	input, err := validateInputFlags(videoPath, framesDir, deviceID)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid input")
	}

	source, err := openSource(input)
	if err != nil {
		log.Fatal().Err(err).Msg("opening frame source")
	}
	defer source.Close()

	var display controller.Display = controller.HeadlessDisplay{}
	if showWindow {
		display = controller.NewWindowDisplay()
	}
	defer display.Close()

	segmenter := images.NewFrameDiffSegmenter(cfg.Segmenter)
	defer segmenter.Close()

	loop := &controller.Loop{
		Source:    source,
		Display:   display,
		Segmenter: segmenter,
		Detector:  motion.New(cfg.Motion),
		Logger:    log.With().Str("component", "loop").Logger(),
		Config:    cfg.Loop,
	}

	if cfg.Export.Enabled {
		writer, err := images.NewStripWriter(cfg.Export.ExportConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("creating strip writer")
		}
		loop.Sink = writer
		log.Info().Str("dir", writer.Dir()).Str("format", string(cfg.Export.Format)).Msg("exporting strips")
		defer func() {
			log.Info().Int("strips", writer.Count()).Str("dir", writer.Dir()).Msg("export finished")
		}()
	}

	if cfg.Profiler.Enabled {
		rp := profiler.NewRuntimeProfiler(cfg.Profiler.ProfilingOptions, log.Logger)
		rp.Start()
		defer func() {
			rp.Stop()
			rp.Report()
		}()
		loop.Profiler = rp
	}

	log.Info().
		Str("input", input.String()).
		Float32("sensitivity", cfg.Segmenter.Sensitivity).
		Int("blur_size", cfg.Segmenter.BlurSize).
		Int("frame_delay", cfg.Segmenter.FrameDelay).
		Bool("show_window", showWindow).
		Msg("motion strip started")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = loop.Run(ctx)
	if status = exitStatus(err); status != 0 {
		log.Error().Err(err).Msg("frame loop failed")
		return
	}
	log.Info().Int("frames", loop.Frames()).Msg("motion strip stopped")
}

// exitStatus maps the loop result to a process exit status. A stop by
// signal is a clean exit.
func exitStatus(err error) int {
	if err == nil || errors.Is(err, context.Canceled) {
		return 0
	}
	return 1
}

// String describes the input for logging.
func (c InputConfig) String() string {
	switch c.Type {
	case InputVideo:
		return "video:" + c.Path
	case InputFrames:
		return "frames:" + c.Path
	default:
		return "camera:" + strconv.Itoa(c.DeviceID)
	}
}

// validateInputFlags validates the input flags and returns the input configuration
func validateInputFlags(videoPath, framesDir string, deviceID int) (*InputConfig, error) {
	if videoPath != "" && framesDir != "" {
		return nil, errors.New("cannot specify both -video and -frames")
	}
	if videoPath != "" {
		if err := validateFile(videoPath, supportedVideoExtensions); err != nil {
			return nil, errors.Wrap(err, "video validation")
		}
		return &InputConfig{Type: InputVideo, Path: videoPath}, nil
	}
	if framesDir != "" {
		info, err := os.Stat(framesDir)
		if err != nil {
			return nil, errors.Wrap(err, "frames directory")
		}
		if !info.IsDir() {
			return nil, errors.Errorf("%s is not a directory", framesDir)
		}
		return &InputConfig{Type: InputFrames, Path: framesDir}, nil
	}
	return &InputConfig{Type: InputCamera, DeviceID: deviceID}, nil
}

// validateFile checks if the file exists and has a supported extension
func validateFile(filePath string, supportedExtensions []string) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return errors.Errorf("file not found: %s", filePath)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	for _, supportedExt := range supportedExtensions {
		if ext == supportedExt {
			return nil
		}
	}
	return errors.Errorf("unsupported file extension: %s. Supported extensions: %v", ext, supportedExtensions)
}

func openSource(input *InputConfig) (controller.FrameSource, error) {
	switch input.Type {
	case InputVideo:
		return controller.OpenCapture(input.Path)
	case InputFrames:
		return util.NewSequence(input.Path)
	default:
		return controller.OpenCapture(input.DeviceID)
	}
}
