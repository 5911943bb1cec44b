// Command regions runs one detection cycle on a frame and mask read from
// disk and writes the composite strip and the annotated frame next to them.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/motion-strip/motion"
)

func main() {
	var (
		framePath string
		maskPath  string
		outDir    string
		label     string
	)
	flag.StringVar(&framePath, "frame", "", "Colour source frame")
	flag.StringVar(&maskPath, "mask", "", "Binary change mask of the same size")
	flag.StringVar(&outDir, "out", ".", "Output directory")
	flag.StringVar(&label, "label", motion.DefaultConfig().Label, "Label drawn on each region")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if framePath == "" || maskPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	frame := gocv.IMRead(framePath, gocv.IMReadColor)
	defer frame.Close()
	if frame.Empty() {
		log.Fatal().Str("path", framePath).Msg("cannot read frame")
	}

	mask := gocv.IMRead(maskPath, gocv.IMReadGrayScale)
	defer mask.Close()
	if mask.Empty() {
		log.Fatal().Str("path", maskPath).Msg("cannot read mask")
	}
	// Masks saved lossy are no longer strictly 0/255.
	gocv.Threshold(mask, &mask, 127, 255, gocv.ThresholdBinary)

	cfg := motion.DefaultConfig()
	cfg.Label = label

	res, err := motion.New(cfg).Process(mask, &frame)
	if err != nil {
		log.Fatal().Err(err).Msg("processing")
	}
	defer res.Close()

	for i, r := range res.Regions {
		log.Info().Int("region", i).Str("rect", r.String()).Int("offset", res.Layout.Slots[i].Offset).Msg("surviving region")
	}
	log.Info().Int("candidates", len(res.Candidates)).Int("regions", len(res.Regions)).Msg("cycle done")

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", outDir).Msg("creating output directory")
	}
	base := strings.TrimSuffix(filepath.Base(framePath), filepath.Ext(framePath))

	annotated := filepath.Join(outDir, base+"_annotated.png")
	if !gocv.IMWrite(annotated, frame) {
		log.Fatal().Str("path", annotated).Msg("writing annotated frame")
	}
	log.Info().Str("path", annotated).Msg("annotated frame written")

	if !res.HasStrip {
		log.Info().Msg("no motion, no strip written")
		return
	}
	strip := filepath.Join(outDir, base+"_strip.png")
	if !gocv.IMWrite(strip, res.Strip) {
		log.Fatal().Str("path", strip).Msg("writing strip")
	}
	log.Info().Str("path", strip).Int("width", res.Strip.Cols()).Int("height", res.Strip.Rows()).Msg("strip written")
}
