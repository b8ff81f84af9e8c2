package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mergimdemku/img2line"
	"github.com/mergimdemku/img2line/imageutil"
)

// Extensions LoadImage can decode.
var inputExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
	".tga":  true,
}

func main() {
	inputPath := flag.String("input", "",
		"Path to the input image file or directory (required)")
	outputPath := flag.String("output", "",
		"Output file or directory (default: next to the input, suffixed _line)")
	configPath := flag.String("config", "",
		"Path to an options JSON file")
	enhance := flag.String("enhance", "",
		"Enhancement mode: auto or clahe (overrides the config file)")
	minArea := flag.Int("min-area", 0,
		"Drop ink components smaller than this many pixels, 0 to disable")
	maxDim := flag.Int("max-dim", 4096,
		"Downscale inputs whose longest side exceeds this, 0 to disable")
	workers := flag.Int("workers", 0,
		"Worker goroutines for directory input (default: NumCPU)")
	printable := flag.Bool("printable", false,
		"Also write an A4 printable rendition, suffixed _print")
	dpi := flag.Int("dpi", img2line.DefaultDPI,
		"Print resolution for the printable rendition")
	report := flag.Bool("report", false,
		"Log a coloring-page quality report for each output")
	dumpStages := flag.String("dump-stages", "",
		"Directory for per-stage debug images (one subdirectory per input)")
	format := flag.String("format", "png",
		"Output format: png, jpg, or webp")
	verbose := flag.Bool("verbose", false,
		"Enable debug logging")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Please provide the image or directory using the -input flag")
		flag.PrintDefaults()
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)

	*format = strings.ToLower(*format)
	switch *format {
	case "png", "jpg", "jpeg", "webp":
	default:
		fmt.Println("Invalid output format, options are png, jpg, or webp")
		os.Exit(1)
	}

	opts, err := img2line.LoadOptions(*configPath)
	if err != nil {
		logger.Error("loading config", "path", *configPath, "err", err)
		os.Exit(1)
	}

	// CLI flags override config file values.
	if *enhance != "" {
		opts.Enhance = img2line.EnhanceMode(*enhance)
	}
	if *minArea > 0 {
		opts.Gentle.MinComponentArea = *minArea
		opts.Standard.MinComponentArea = *minArea
	}
	if *dumpStages != "" {
		opts.RecordStages = true
	}

	pipeline, err := img2line.NewPipeline(opts)
	if err != nil {
		logger.Error("invalid options", "err", err)
		os.Exit(1)
	}

	paths, err := collectInputs(*inputPath)
	if err != nil {
		logger.Error("collecting inputs", "path", *inputPath, "err", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		fmt.Println("No images to convert.")
		return
	}

	batchMode := len(paths) > 1
	outDir := ""
	if batchMode || isDirectory(*outputPath) {
		outDir = *outputPath
		if outDir == "" {
			outDir = filepath.Dir(paths[0])
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			logger.Error("creating output directory", "path", outDir, "err", err)
			os.Exit(1)
		}
	}

	start := time.Now()
	images := make([]image.Image, len(paths))
	for i, path := range paths {
		img, err := imageutil.LoadImage(path)
		if err != nil {
			logger.Error("loading image", "path", path, "err", err)
			continue
		}
		images[i] = imageutil.PrepareInput(img, *maxDim)
		logger.Debug("loaded", "path", path,
			"width", images[i].Bounds().Dx(), "height", images[i].Bounds().Dy())
	}
	loaded := time.Now()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	progress := func(done, total int) {
		logger.Debug("progress", "done", done, "total", total)
	}
	results := pipeline.ProcessAll(ctx, images, *workers, progress)
	processed := time.Now()

	converted, failed := 0, 0
	for _, br := range results {
		path := paths[br.Index]
		if br.Err != nil {
			logger.Error("processing failed", "input", path, "err", br.Err)
			failed++
			continue
		}
		if err := writeOutputs(br.Result, path, outDir, *outputPath, *format, *printable, *dpi); err != nil {
			logger.Error("writing output", "input", path, "err", err)
			failed++
			continue
		}
		converted++

		res := br.Result
		if res.LowConfidence {
			logger.Warn("low confidence result", "input", path,
				"class", res.Class.String(), "content", res.Metrics.ContentRatio)
		} else {
			logger.Debug("converted", "input", path,
				"class", res.Class.String(), "content", res.Metrics.ContentRatio)
		}
		if *report {
			q := img2line.ValidateQuality(res.Image)
			logger.Info("quality report", "input", path, "score", q.Score,
				"suitable", q.Suitable, "black", q.BlackRatio, "gray", q.GrayRatio,
				"issues", q.Issues)
		}
		if *dumpStages != "" {
			dir := filepath.Join(*dumpStages, baseName(path))
			if err := img2line.DumpStages(res, dir); err != nil {
				logger.Error("dumping stages", "input", path, "err", err)
			}
		}
	}

	fmt.Printf("Converted: %d/%d\n", converted, len(paths))
	fmt.Printf("Load time: %v\n", loaded.Sub(start))
	fmt.Printf("Computation time: %v\n", processed.Sub(loaded))
	if failed > 0 {
		os.Exit(1)
	}
}

// collectInputs expands a file or directory path into the list of
// images to convert, sorted for a stable batch order.
func collectInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if inputExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			paths = append(paths, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// writeOutputs saves the converted image, plus the printable rendition
// when requested. A single input with an explicit non-directory -output
// is written exactly there; everything else lands in outDir with a
// _line suffix.
func writeOutputs(res *img2line.Result, inputPath, outDir, outputFlag, format string, printable bool, dpi int) error {
	var outPath string
	if outDir == "" && outputFlag != "" {
		outPath = outputFlag
	} else {
		dir := outDir
		if dir == "" {
			dir = filepath.Dir(inputPath)
		}
		outPath = filepath.Join(dir, baseName(inputPath)+"_line."+format)
	}

	if err := imageutil.SaveImage(res.Image, outPath); err != nil {
		return err
	}

	if printable {
		page := img2line.Printable(res.Image, dpi)
		ext := filepath.Ext(outPath)
		printPath := strings.TrimSuffix(outPath, ext) + "_print" + ext
		if err := imageutil.SaveImage(page, printPath); err != nil {
			return err
		}
	}
	return nil
}
