package worker

import (
	"context"
	"sync"

	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

// ExecuteFunc runs one job and returns it with its final status.
type ExecuteFunc func(ctx context.Context, job jobModel.UploadJob) jobModel.UploadJob

// Pool runs the jobs of a batch on at most maxWorkers goroutines. Jobs do not
// wait on each other; each one has its own completion path through execute.
type Pool struct {
	maxWorkers int
	logger     *logger_i.Logger
}

func NewPool(maxWorkers int) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Pool{
		maxWorkers: maxWorkers,
		logger:     logger_i.NewLogger("WorkerPool"),
	}
}

// Run blocks until every job has finished or been skipped because ctx ended.
// The result slice keeps the order of jobs.
func (p *Pool) Run(ctx context.Context, jobs []jobModel.UploadJob, execute ExecuteFunc) []jobModel.UploadJob {
	results := make([]jobModel.UploadJob, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	jobChannel := make(chan int, len(jobs))
	for i := range jobs {
		metrics.IncrementJobsInQueue()
		jobChannel <- i
	}
	close(jobChannel)

	workerCount := min(p.maxWorkers, len(jobs))
	var workerWaitGroup sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		p.createWorker(ctx, &workerWaitGroup, jobChannel, jobs, results, execute)
	}
	workerWaitGroup.Wait()
	return results
}

func (p *Pool) createWorker(ctx context.Context, wg *sync.WaitGroup, jobChannel <-chan int, jobs []jobModel.UploadJob, results []jobModel.UploadJob, execute ExecuteFunc) {
	wg.Add(1)
	metrics.IncrementActiveWorkerCount()
	go func() {
		defer p.removeWorker(wg)
		for i := range jobChannel {
			metrics.DecrementJobsInQueue()
			results[i] = p.executeJob(ctx, jobs[i], execute)
		}
	}()
}
