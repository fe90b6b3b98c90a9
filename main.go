package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/Maksasj/nika/pkg/core"
	"github.com/Maksasj/nika/pkg/loaders"
	"github.com/Maksasj/nika/pkg/output"
	"github.com/Maksasj/nika/pkg/renderer"
	"github.com/Maksasj/nika/pkg/scene"
)

// Config holds the parsed command line
type Config struct {
	Scene       string
	Width       int
	Height      int
	Samples     int
	MaxDepth    int
	Seed        int64
	Sampling    string
	Format      string
	PixelFormat string
	Output      string
	Workers     int
	TileSize    int
	Progressive bool
	List        bool
	SceneHelp   bool
	Help        bool
}

func main() {
	config := parseFlags()

	if config.Help {
		showHelp()
		return
	}
	if config.SceneHelp {
		fmt.Print(loaders.SceneFileHelp)
		return
	}
	if config.List {
		if err := listScenes(); err != nil {
			fmt.Printf("Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, config, renderer.NewDefaultLogger()); err != nil {
		fmt.Printf("Error: %v\n", err)
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

// parseFlags parses command line flags and returns configuration
func parseFlags() Config {
	config := Config{}
	flag.StringVar(&config.Scene, "scene", "default", "Scene name ('default', 'rgb', 'cornell', 'spheregrid') or path to a .toml scene file")
	flag.IntVar(&config.Width, "width", 0, "Image width (0 = scene default)")
	flag.IntVar(&config.Height, "height", 0, "Image height (0 = scene default)")
	flag.IntVar(&config.Samples, "samples", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&config.MaxDepth, "bounces", -1, "Maximum bounces per path (-1 = scene default)")
	flag.Int64Var(&config.Seed, "seed", 0, "Render seed (0 = scene default)")
	flag.StringVar(&config.Sampling, "sampling", "", "Sphere sampling mode: 'legacy' or 'uniform' (empty = scene default)")
	flag.StringVar(&config.Format, "format", "png", "Output file type: 'png', 'ppm' or 'raw'")
	flag.StringVar(&config.PixelFormat, "pixel-format", "rgb8", "Pixel format: 'rgb8', 'rgba8' or 'rgba32f'")
	flag.StringVar(&config.Output, "output", "", "Output file (default output/<scene>/render_<timestamp>.<format>)")
	flag.IntVar(&config.Workers, "workers", 0, "Number of parallel workers (0 = auto)")
	flag.IntVar(&config.TileSize, "tile-size", renderer.DefaultTileSize, "Tile edge length in pixels")
	flag.BoolVar(&config.Progressive, "progressive", false, "Render one sample per pass and report every pass")
	flag.BoolVar(&config.List, "list", false, "List available scenes")
	flag.BoolVar(&config.SceneHelp, "scene-help", false, "Show the scene file format")
	flag.BoolVar(&config.Help, "help", false, "Show help information")
	flag.Parse()
	return config
}

// showHelp displays help information
func showHelp() {
	fmt.Println("nika - a small progressive path tracer")
	fmt.Println("Usage: nika [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.ListBuiltinScenes() {
		fmt.Printf("  %-11s - %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Println("Run with -list to include scene files, -scene-help for the file format.")
}

// listScenes prints every built-in and file scene
func listScenes() error {
	scenes, err := scene.ListAllScenes()
	if err != nil {
		return err
	}
	for _, info := range scenes {
		location := info.Type
		if info.FilePath != "" {
			location = info.FilePath
		}
		fmt.Printf("%-16s %-24s %s\n", info.ID, info.DisplayName, location)
	}
	return nil
}

// createScene resolves the scene and applies command line overrides
func createScene(config Config) (*scene.Scene, error) {
	sc, err := scene.Create(config.Scene)
	if err != nil {
		return nil, err
	}

	sampling := &sc.SamplingConfig
	if config.Width > 0 {
		sampling.Width = config.Width
	}
	if config.Height > 0 {
		sampling.Height = config.Height
	}
	if config.Samples > 0 {
		sampling.SamplesPerPixel = config.Samples
	}
	if config.MaxDepth >= 0 {
		sampling.MaxDepth = config.MaxDepth
	}
	if config.Seed != 0 {
		sampling.Seed = config.Seed
	}
	if config.Sampling != "" {
		mode, err := core.ParseSphereSampling(config.Sampling)
		if err != nil {
			return nil, err
		}
		sampling.SphereSampling = mode
	}

	if err := sampling.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: %w", config.Scene, err)
	}
	return sc, nil
}

// outputPath returns the file the render is written to
func outputPath(config Config, sceneName string, now time.Time) string {
	if config.Output != "" {
		return config.Output
	}
	dir := filepath.Join("output", sanitize(sceneName))
	return filepath.Join(dir, fmt.Sprintf("render_%s.%s", now.Format("20060102_150405"), strings.ToLower(config.Format)))
}

// sanitize turns a scene name or path into a directory name
func sanitize(name string) string {
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if name == "" || name == "." {
		return "scene"
	}
	return name
}

func run(ctx context.Context, config Config, logger core.Logger) error {
	logger.Printf("Reproduce with: %s\n", shellquote.Join(os.Args...))

	pixelFormat, err := output.ParsePixelFormat(config.PixelFormat)
	if err != nil {
		return err
	}
	// Reject an unknown file type before spending time on the render
	if _, err := output.NewSink(config.Format, io.Discard); err != nil {
		return err
	}

	sc, err := createScene(config)
	if err != nil {
		return err
	}
	name := sc.Name
	if name == "" {
		name = config.Scene
	}
	sampling := sc.SamplingConfig
	logger.Printf("Scene %q: %d objects, %dx%d, %d samples, %d bounces, %v sampling, seed %d\n",
		name, len(sc.Objects), sampling.Width, sampling.Height, sampling.SamplesPerPixel,
		sampling.MaxDepth, sampling.SphereSampling, sampling.Seed)

	canvas, err := render(ctx, config, sc, logger)
	if err != nil {
		return err
	}

	filename := outputPath(config, name, time.Now())
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := writeImage(filename, config.Format, pixelFormat, canvas); err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", filename)
	return nil
}

// render produces a finalized canvas, either in one go or pass by pass
func render(ctx context.Context, config Config, sc *scene.Scene, logger core.Logger) (*renderer.Canvas, error) {
	if !config.Progressive {
		rt, err := renderer.NewRaytracer(sc, renderer.Config{TileSize: config.TileSize, NumWorkers: config.Workers}, logger)
		if err != nil {
			return nil, err
		}
		canvas := rt.NewCanvas()
		if _, err := rt.Render(ctx, canvas); err != nil {
			return nil, err
		}
		return canvas, nil
	}

	progressiveConfig := renderer.DefaultProgressiveConfig()
	progressiveConfig.TileSize = config.TileSize
	progressiveConfig.NumWorkers = config.Workers

	pr, err := renderer.NewProgressiveRaytracer(sc, progressiveConfig, logger)
	if err != nil {
		return nil, err
	}

	passChan, errChan := pr.RenderProgressive(ctx)
	var last *renderer.Canvas
	for result := range passChan {
		last = result.Canvas
		logger.Printf("Pass %d/%d: %d samples/pixel, average luminance %.3f\n",
			result.PassNumber, pr.Config().MaxPasses, result.Stats.SamplesPerPixel, renderer.AverageLuminance(result.Canvas))
	}
	if err := <-errChan; err != nil {
		return nil, err
	}
	if last == nil {
		return nil, fmt.Errorf("no passes rendered")
	}
	return last, nil
}

// writeImage encodes the canvas into filename
func writeImage(filename, kind string, format output.PixelFormat, canvas *renderer.Canvas) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	sink, err := output.NewSink(kind, file)
	if err != nil {
		return err
	}
	if err := sink.Write(canvas.Width, canvas.Height, format, canvas.Pixels()); err != nil {
		return fmt.Errorf("writing %s: %w", kind, err)
	}
	return nil
}
