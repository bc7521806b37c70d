package renderer

import (
	"context"
	"sync"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ScanlineTask asks a worker to render one image row
type ScanlineTask struct {
	Row int // Image row, 0 at the top
}

// ScanlineResult contains the result from rendering a row
type ScanlineResult struct {
	Row     int
	Samples int64
	Rays    int64
	Invalid int64
	Skipped bool // The context was cancelled before the row started
}

// WorkerPool manages parallel scanline rendering
type WorkerPool struct {
	taskQueue   chan ScanlineTask
	resultQueue chan ScanlineResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual scanline tasks
type Worker struct {
	ID          int
	tracer      *scanlineTracer
	taskQueue   chan ScanlineTask
	resultQueue chan ScanlineResult
}

// NewWorkerPool creates a worker pool with one tracer per worker. The queues
// hold every row so submission never blocks.
func NewWorkerPool(job *renderJob, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan ScanlineTask, job.fb.Height),
		resultQueue: make(chan ScanlineResult, job.fb.Height),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			tracer:      &scanlineTracer{job: job, world: &countingWorld{World: job.world}},
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a scanline task to the worker pool
func (wp *WorkerPool) SubmitTask(task ScanlineTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed scanline result
func (wp *WorkerPool) GetResult() (ScanlineResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop. Cancellation is checked before each row.
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if ctx.Err() != nil {
			w.resultQueue <- ScanlineResult{Row: task.Row, Skipped: true}
			continue
		}
		w.resultQueue <- w.tracer.renderRow(task.Row)
	}
}

// countingWorld counts scene queries. Each worker owns one, so no locking.
type countingWorld struct {
	integrator.World
	rays int64
}

func (c *countingWorld) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	c.rays++
	return c.World.Hit(ray, tMin, tMax, rec)
}
