package renderer

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	TaskID        int            // index into the tile list
	PixelStats    [][]PixelStats // shared pixel stats array to write to
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
}

// WorkerPool renders tiles on a fixed number of goroutines
type WorkerPool struct {
	renderer   *TileRenderer
	numWorkers int
}

// NewWorkerPool creates a worker pool; numWorkers <= 0 uses the CPU count
func NewWorkerPool(renderer *TileRenderer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{renderer: renderer, numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run renders every task and calls onResult for each finished tile. Calls to
// onResult are serialized. Tiles have disjoint bounds so workers write the
// shared pixel stats without locking. Cancellation is checked before each
// tile starts.
func (wp *WorkerPool) Run(ctx context.Context, tasks []TileTask, onResult func(TileResult)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	var mu sync.Mutex
	for _, task := range tasks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stats := wp.renderer.RenderTileBounds(task.Tile.Bounds, task.PixelStats, task.TargetSamples)
			if onResult != nil {
				mu.Lock()
				onResult(TileResult{TaskID: task.TaskID, Stats: stats})
				mu.Unlock()
			}
			return nil
		})
	}
	return g.Wait()
}
