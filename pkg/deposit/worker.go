package deposit

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// progressInterval is how often a running batch logs its progress.
var progressInterval = 10 * time.Second

// checkTask is a single (deposit, credential) pair of a batch.
type checkTask struct {
	index    int
	entry    *ParsedData
	expected *ExpectedCredential
}

// processCheckTasks runs tasks on numWorkers goroutines and stores each outcome at the
// task's index.
func (v *Validator) processCheckTasks(tasks chan checkTask, outcomes []Outcome, numWorkers int) {
	var wg sync.WaitGroup

	var completed uint64

	// Start progress reporter
	stopProgress := make(chan struct{})
	go reportProgress(len(outcomes), &completed, stopProgress)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)

		go v.worker(i, tasks, outcomes, &wg, &completed)
	}

	wg.Wait()
	close(stopProgress)
}

// worker checks deposits until tasks is drained
func (v *Validator) worker(id int, tasks chan checkTask, outcomes []Outcome, wg *sync.WaitGroup, completed *uint64) {
	defer wg.Done()

	workerLog := log.WithField("worker", id)
	workerLog.Debug("Worker started")

	for task := range tasks {
		outcomes[task.index] = v.runTask(task)

		atomic.AddUint64(completed, 1)
		workerLog.WithField("index", task.index).Debug("Deposit checked")
	}
}

// runTask checks a single pair. A panic inside a primitive only fails this pair.
func (v *Validator) runTask(task checkTask) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = failed(ReasonNone, errors.Errorf("panic while checking deposit %d: %v", task.index, r))
		}
	}()

	if task.entry == nil {
		return malformed(errors.New("missing deposit"))
	}

	if task.entry.Err != nil {
		return malformed(task.entry.Err)
	}

	return v.Check(task.entry.Record, task.expected)
}

// reportProgress logs the number of checked deposits until stop is closed
func reportProgress(total int, completed *uint64, stop chan struct{}) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			done := atomic.LoadUint64(completed)
			log.Infof("Progress: %d/%d deposits checked (%.1f%%)",
				done, total,
				float64(done)*100/float64(total))
		case <-stop:
			return
		}
	}
}
