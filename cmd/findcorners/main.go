// Command findcorners detects chessboard-grid corners in a batch of
// images, one result line per image on stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"math"
	"os"
	"os/signal"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/tiff"

	"github.com/mcm001/mrgingham/internal/chessgrid"
	"github.com/mcm001/mrgingham/pkg/geometry"
)

func main() {
	jobs := flag.Int("j", runtime.NumCPU(), "number of worker goroutines")
	debug := flag.Bool("debug", false, "write debug artifacts (scaled images, response fields, corner dumps)")
	debugDir := flag.String("debug-dir", ".", "directory for -debug artifacts")
	preset := flag.String("preset", "default", "parameter preset: default or legacy")
	level := flag.Int("level", -1, "pin a pyramid level; negative triggers auto-level search")
	timeout := flag.Duration("timeout", 0, "overall job timeout; 0 disables")
	equalize := flag.Bool("equalize", false, "apply global histogram equalization before detection")
	clahe := flag.Bool("clahe", false, "apply CLAHE contrast normalization before detection")
	blurRadius := flag.Int("blur", 0, "box blur radius applied before detection; 0 disables")
	verbose := flag.Bool("v", false, "enable debug-level logging")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if *verbose {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: findcorners [flags] image...")
		os.Exit(1)
	}

	var params chessgrid.Params
	switch *preset {
	case "default":
		params = chessgrid.DefaultParams()
	case "legacy":
		params = chessgrid.LegacyParams()
	default:
		logger.Fatal().Str("preset", *preset).Msg("unknown preset, want default or legacy")
	}

	var sink chessgrid.DebugSink = chessgrid.NullSink{}
	if *debug {
		if err := os.MkdirAll(*debugDir, 0o755); err != nil {
			logger.Fatal().Err(err).Str("dir", *debugDir).Msg("could not create debug directory")
		}
		sink = chessgrid.FileDebugSink{Dir: *debugDir}
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if *timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, *timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel()
	}()

	opts := chessgrid.PreprocessOptions{
		EqualizeHistogram: *equalize,
		CLAHE:             *clahe,
		BlurRadius:        *blurRadius,
	}

	runPool(ctx, logger, paths, *jobs, params, opts, *level, sink)
}

// runPool fans paths out across n worker goroutines, each running the full
// decode -> preprocess -> detect -> refine pipeline independently. Results
// are serialized to stdout under one mutex so concurrent images' result
// blocks never interleave; the mutex is never held during detection.
func runPool(ctx context.Context, logger zerolog.Logger, paths []string, n int, params chessgrid.Params, opts chessgrid.PreprocessOptions, pinnedLevel int, sink chessgrid.DebugSink) {
	if n < 1 {
		n = 1
	}

	pathCh := make(chan string)
	var stdoutMu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range pathCh {
				if ctx.Err() != nil {
					return
				}
				processOne(logger, path, params, opts, pinnedLevel, sink, &stdoutMu)
			}
		}()
	}

feed:
	for _, p := range paths {
		select {
		case pathCh <- p:
		case <-ctx.Done():
			break feed
		}
	}
	close(pathCh)
	wg.Wait()
}

// processOne runs one image through the pipeline and writes its result
// line to stdout. A KindInvalidInput result becomes the sentinel failure
// line; a KindDebugIO result is logged as a warning but does not change
// the printed corners.
func processOne(logger zerolog.Logger, path string, params chessgrid.Params, opts chessgrid.PreprocessOptions, pinnedLevel int, sink chessgrid.DebugSink, stdoutMu *sync.Mutex) {
	img, err := chessgrid.LoadGrayscale(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to load image")
		writeSentinel(stdoutMu, path)
		return
	}

	pre, err := chessgrid.Preprocess(img, opts)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("preprocessing failed")
		writeSentinel(stdoutMu, path)
		return
	}

	if pinnedLevel >= 0 {
		processPinnedLevel(logger, path, pre, params, pinnedLevel, sink, stdoutMu)
		return
	}

	points, foundLevel, err := chessgrid.FindGrid(pre, params, chessgrid.NullGridFitter{}, sink)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Int("level", foundLevel).Msg("detection failed")
		writeSentinel(stdoutMu, path)
		return
	}

	if logger.GetLevel() <= zerolog.DebugLevel && len(points) > 0 {
		logger.Debug().
			Str("path", path).
			Int("found_level", foundLevel).
			Int("count", len(points)).
			Interface("centroid", refinedCentroid(points)).
			Msg("grid located")
	}

	writePoints(stdoutMu, path, points)
}

// refinedCentroid reduces a batch of corners to their centroid in
// full-image pixel coordinates, for the one-line debug summary above; it is
// not part of the printed result.
func refinedCentroid(points []chessgrid.RefinedPoint) geometry.Point2D {
	pts := make([]geometry.Point2D, len(points))
	for i, p := range points {
		pts[i] = geometry.NewPoint2D(p.X, p.Y)
	}
	return geometry.Centroid(pts)
}

// processPinnedLevel skips auto-level search, halves img once per pinned
// level, and runs a single Find on that level's image, with no refinement
// pass. Find already rescales its points to full-image resolution and
// FindGridScale fixed point, so they print directly with no further
// conversion.
func processPinnedLevel(logger zerolog.Logger, path string, img chessgrid.Image, params chessgrid.Params, level int, sink chessgrid.DebugSink, stdoutMu *sync.Mutex) {
	for l := 0; l < level && l < chessgrid.MaxPyramidLevel && img.Width >= 2 && img.Height >= 2; l++ {
		src, err := img.ToMat()
		if err == nil {
			dst := gocv.NewMat()
			gocv.Resize(src, &dst, image.Point{X: img.Width / 2, Y: img.Height / 2}, 0, 0, gocv.InterpolationLinear)
			img, err = chessgrid.ImageFromMat(dst)
			dst.Close()
			src.Close()
		}
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Int("level", level).Msg("downsampling failed")
			writeSentinel(stdoutMu, path)
			return
		}
	}
	res, err := chessgrid.Find(img, level, params, sink)
	if err != nil {
		if res.Kind == chessgrid.KindDebugIO {
			logger.Warn().Err(err).Str("path", path).Int("level", level).Msg("debug artifact write failed")
		} else {
			logger.Warn().Err(err).Str("path", path).Int("level", level).Msg("detection failed")
			writeSentinel(stdoutMu, path)
			return
		}
	}
	writeScaledPoints(stdoutMu, path, res.Points, level)
}

func writeSentinel(stdoutMu *sync.Mutex, path string) {
	stdoutMu.Lock()
	defer stdoutMu.Unlock()
	fmt.Printf("%s - - -\n", path)
}

// writeScaledPoints emits one line per corner already in Find/Refine's
// output representation: a FindGridScale fixed-point coordinate in full
// image resolution, tagged with the single pinned level that produced it.
func writeScaledPoints(stdoutMu *sync.Mutex, path string, points []chessgrid.Point, level int) {
	stdoutMu.Lock()
	defer stdoutMu.Unlock()
	for _, p := range points {
		fmt.Printf("%s %d %d %d\n", path, p.X, p.Y, level)
	}
}

// writePoints emits one line per corner from FindGrid's auto-level result,
// scaling each refined double-precision, full-resolution point to fixed
// point at chessgrid.FindGridScale and tagging it with its own refinement
// level.
func writePoints(stdoutMu *sync.Mutex, path string, points []chessgrid.RefinedPoint) {
	stdoutMu.Lock()
	defer stdoutMu.Unlock()
	for _, p := range points {
		x := int(math.Round(p.X * chessgrid.FindGridScale))
		y := int(math.Round(p.Y * chessgrid.FindGridScale))
		fmt.Printf("%s %d %d %d\n", path, x, y, p.Level)
	}
}
