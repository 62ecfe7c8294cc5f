package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	jobmodel "github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/metrics"
)

func (p *Pool) executeJob(ctx context.Context, job jobmodel.UploadJob, execute ExecuteFunc) (result jobmodel.UploadJob) {
	log := p.logger.WithContext(ctx).With("job Id", job.Id, "file", job.FileName)

	if err := ctx.Err(); err != nil {
		log.Warn("Skipping job, context done", "error", err)
		job.Status = jobmodel.JobStatusError
		job.Error = err.Error()
		job.EndTime = time.Now()
		return job
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
			result = job
			result.Status = jobmodel.JobStatusError
			result.Error = fmt.Sprint(r)
			result.EndTime = time.Now()
		}
	}()

	log.Debug("Processing job")
	job.Status = jobmodel.JobStatusRunning
	result = execute(ctx, job)
	if result.Status == jobmodel.JobStatusRunning || result.Status == jobmodel.JobStatusQueued {
		result.Status = jobmodel.JobStatusComplete
	}
	result.EndTime = time.Now()
	log.Debug("Finished job", "status", result.Status)
	return result
}

func (p *Pool) removeWorker(wg *sync.WaitGroup) {
	metrics.DecrementActiveWorkerCount()
	wg.Done()
}
