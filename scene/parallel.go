package scene

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/heartstorm/systems"
)

// heartJob is one heart layer's update, shared read-only by every chunk.
type heartJob struct {
	pos    []float32
	base   []float32
	params systems.HeartParams
}

// workChunk represents a range of particles for a worker to process.
type workChunk struct {
	start, end int
	job        *heartJob
}

// parallelState holds the persistent worker pool for the heart layers.
// Chunks cover disjoint index ranges, so the result does not depend on the
// worker count or scheduling.
type parallelState struct {
	numWorkers int
	threshold  int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(workers, threshold int) *parallelState {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &parallelState{
		numWorkers: workers,
		threshold:  threshold,
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			systems.UpdateHeart(chunk.job.pos, chunk.job.base, chunk.start, chunk.end, chunk.job.params)
			p.doneChan <- struct{}{}
		}
	}
}

// updateHeart runs one heart layer, on the caller when the layer is small or
// there is a single worker, otherwise split across the pool. It returns after
// every chunk has completed.
func (p *parallelState) updateHeart(job *heartJob) {
	n := len(job.base) / 3
	if n == 0 {
		return
	}
	if n < p.threshold || p.numWorkers < 2 {
		systems.UpdateHeart(job.pos, job.base, 0, n, job.params)
		return
	}

	if !p.running {
		p.startWorkers()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end, job: job}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
