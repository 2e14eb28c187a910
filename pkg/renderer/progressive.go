package renderer

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize       int // Size of each tile (64x64 recommended)
	Supersample    int // Supersampling grid per pixel, Supersample^2 samples when converged
	InitialSamples int // Samples for the first pass (1 recommended)
	MaxPasses      int // Maximum number of passes
	NumWorkers     int // Number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:       64,
		Supersample:    2,
		InitialSamples: 1,
		MaxPasses:      2,
		NumWorkers:     0,
	}
}

// ProgressiveRenderer refines an image over several passes, each one adding
// supersamples to every pixel
type ProgressiveRenderer struct {
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile
	pixelStats    [][]PixelStats // shared pixel statistics in image coordinates
	tileRenderer  *TileRenderer
	workerPool    *WorkerPool
	logger        *slog.Logger
}

// NewProgressiveRenderer creates a progressive renderer. A nil logger uses slog.Default.
func NewProgressiveRenderer(tracer *Tracer, width, height int, config ProgressiveConfig, logger *slog.Logger) (*ProgressiveRenderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultProgressiveConfig().TileSize
	}
	config.Supersample = max(1, config.Supersample)
	config.InitialSamples = max(1, config.InitialSamples)
	config.MaxPasses = max(1, config.MaxPasses)

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	tileRenderer := NewTileRenderer(tracer, width, height, config.Supersample)
	return &ProgressiveRenderer{
		width:        width,
		height:       height,
		config:       config,
		tiles:        NewTileGrid(width, height, config.TileSize),
		pixelStats:   pixelStats,
		tileRenderer: tileRenderer,
		workerPool:   NewWorkerPool(tileRenderer, config.NumWorkers),
		logger:       logger,
	}, nil
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRenderer) getSamplesForPass(passNumber int) int {
	maxSamples := pr.tileRenderer.MaxSamples()

	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 || passNumber >= pr.config.MaxPasses {
		return maxSamples
	}

	// First pass is a quick preview
	initial := min(pr.config.InitialSamples, maxSamples)
	if passNumber <= 1 {
		return initial
	}

	// Divide remaining samples evenly across remaining passes
	samplesPerPass := (maxSamples - initial) / (pr.config.MaxPasses - 1)
	return min(maxSamples, initial+(passNumber-1)*samplesPerPass)
}

// RenderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRenderer) RenderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (*Frame, RenderStats, error) {
	start := time.Now()
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Debug("render pass",
		"pass", passNumber, "target_samples", targetSamples, "workers", pr.workerPool.GetNumWorkers())

	tasks := make([]TileTask, len(pr.tiles))
	for i, tile := range pr.tiles {
		tasks[i] = TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        i,
			PixelStats:    pr.pixelStats,
		}
	}

	completed := 0
	err := pr.workerPool.Run(ctx, tasks, func(result TileResult) {
		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++
		completed++

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:   pr.extractTileImage(tile),
				PassNumber:  passNumber,
				TileNumber:  completed,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	})
	if err != nil {
		return nil, RenderStats{}, fmt.Errorf("pass %d: %w", passNumber, err)
	}

	frame, stats := pr.assembleCurrentImage(targetSamples)
	stats.Duration = time.Since(start)
	return frame, stats, nil
}

// extractTileImage copies one tile out of the shared pixel stats
func (pr *ProgressiveRenderer) extractTileImage(tile *Tile) *image.NRGBA {
	bounds := tile.Bounds
	frame := NewFrame(bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			frame.Set(x-bounds.Min.X, y-bounds.Min.Y, pr.pixelStats[y][x].GetColor())
		}
	}
	return frame.ToNRGBA()
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Frame      *Frame
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.NRGBA // Image data for just this tile
	PassNumber int          // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders all passes in a goroutine and reports them on
// the returned channels. The caller should read from these channels in
// separate goroutines. Without TileUpdates the tile channel is closed
// immediately.
func (pr *ProgressiveRenderer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)

		pr.logger.Info("progressive render started",
			"width", pr.width, "height", pr.height, "passes", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			if err := ctx.Err(); err != nil {
				pr.logger.Info("render cancelled", "pass", pass)
				errChan <- err
				return
			}

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// channel full, drop the update
					}
				}
			}

			frame, stats, err := pr.RenderPass(ctx, pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			pr.logger.Info("pass completed",
				"pass", pass, "duration", stats.Duration, "samples", stats.MaxSamples)

			isLast := pass == pr.config.MaxPasses || stats.MinSamples >= pr.tileRenderer.MaxSamples()
			select {
			case passChan <- PassResult{PassNumber: pass, Frame: frame, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				return
			}
			if isLast {
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}

// assembleCurrentImage builds a frame from the shared pixel stats and
// gathers the statistics in the same sweep
func (pr *ProgressiveRenderer) assembleCurrentImage(targetSamples int) (*Frame, RenderStats) {
	frame := NewFrame(pr.width, pr.height)
	stats := RenderStats{
		TotalPixels: pr.width * pr.height,
		MaxSamples:  targetSamples,
		MinSamples:  pr.tileRenderer.MaxSamples(),
	}

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			pixel := &pr.pixelStats[y][x]
			frame.Set(x, y, pixel.GetColor())

			stats.TotalSamples += pixel.SampleCount
			stats.MinSamples = min(stats.MinSamples, pixel.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, pixel.SampleCount)
		}
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return frame, stats
}

// Render renders a complete image in a single pass
func Render(ctx context.Context, tracer *Tracer, width, height int, config ProgressiveConfig, logger *slog.Logger) (*Frame, RenderStats, error) {
	config.MaxPasses = 1
	pr, err := NewProgressiveRenderer(tracer, width, height, config, logger)
	if err != nil {
		return nil, RenderStats{}, err
	}
	frame, stats, err := pr.RenderPass(ctx, 1, nil)
	if err != nil {
		return nil, RenderStats{}, err
	}
	pr.logger.Info("render finished",
		"width", width, "height", height, "samples", stats.TotalSamples, "duration", stats.Duration)
	return frame, stats, nil
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{ID: id, Bounds: bounds}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)
			tiles = append(tiles, NewTile(len(tiles), image.Rect(x0, y0, x1, y1)))
		}
	}
	return tiles
}
