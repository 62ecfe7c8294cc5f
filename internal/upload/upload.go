// Package upload forwards a batch of user-picked files to the QA service. Files
// with an unsupported extension are dropped; every remaining file is uploaded
// as its own job and reports success or failure on its own.
package upload

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/akolanti/DocQA/internal/adapter"
	"github.com/akolanti/DocQA/internal/adapter/utils"
	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/internal/domain/jobModel"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/internal/worker"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

type Uploader interface {
	UploadDocument(ctx context.Context, filename string, content io.Reader) (api.UploadResponse, error)
}

// Notifier receives the loading and error signals of each upload.
type Notifier interface {
	BeginLoading() string
	EndLoading(token string)
	ShowError(message string)
}

// Refresher reloads the document list after a successful upload.
type Refresher func(ctx context.Context)

// Candidate is one file picked by the user. Open is called once, by the job
// that uploads it.
type Candidate struct {
	Name string
	Open func() (io.ReadCloser, error)
}

type Handler struct {
	uploader Uploader
	pool     *worker.Pool
	logger   *logger_i.Logger
}

func NewHandler(uploader Uploader, maxWorkers int) *Handler {
	return &Handler{
		uploader: uploader,
		pool:     worker.NewPool(maxWorkers),
		logger:   logger_i.NewLogger("Upload"),
	}
}

// FilterAllowed keeps the candidates whose extension the service accepts.
func FilterAllowed(files []Candidate) []Candidate {
	allowed := make([]Candidate, 0, len(files))
	for _, f := range files {
		if commonModels.IsAllowedFile(f.Name) {
			allowed = append(allowed, f)
		}
	}
	return allowed
}

// Upload sends every allowed file and blocks until each has finished. When no
// file qualifies it returns a validation error without touching the network.
// The returned jobs carry the per-file outcome in input order.
func (h *Handler) Upload(ctx context.Context, files []Candidate, notifier Notifier, refresh Refresher) ([]jobModel.UploadJob, error) {
	log := h.logger.WithContext(ctx)
	allowed := FilterAllowed(files)
	if len(allowed) == 0 {
		metrics.CountRejectedUploadBatch()
		log.Info("Rejected upload batch, no supported files", "files", len(files))
		return nil, api.NewValidationError(adapter.MsgUnsupportedFiles)
	}
	if skipped := len(files) - len(allowed); skipped > 0 {
		log.Info("Skipping unsupported files", "skipped", skipped)
	}

	jobs := make([]jobModel.UploadJob, len(allowed))
	for i, f := range allowed {
		jobs[i] = jobModel.UploadJob{
			Id:          utils.GetNewUUID(),
			TraceId:     config.TraceID(ctx),
			FileName:    f.Name,
			Status:      jobModel.JobStatusQueued,
			CreatedTime: time.Now(),
			Open:        f.Open,
		}
	}

	execute := func(ctx context.Context, job jobModel.UploadJob) jobModel.UploadJob {
		return h.uploadOne(ctx, job, notifier, refresh)
	}
	return h.pool.Run(ctx, jobs, execute), nil
}

func (h *Handler) uploadOne(ctx context.Context, job jobModel.UploadJob, notifier Notifier, refresh Refresher) jobModel.UploadJob {
	token := notifier.BeginLoading()
	defer notifier.EndLoading(token)

	log := h.logger.WithContext(ctx).With("job Id", job.Id, "file", job.FileName)

	resp, err := h.send(ctx, job)
	metrics.CountUpload(err == nil)
	if err != nil {
		log.Warn("Upload failed", "error", err)
		job.Status = jobModel.JobStatusError
		job.Error = err.Error()
		notifier.ShowError(adapter.UploadFailedPrefix + adapter.ToUserMessage(err, adapter.MsgUploadFallback))
		return job
	}

	log.Info("Uploaded document", "docId", resp.DocId, "message", resp.Message)
	job.DocId = resp.DocId
	job.Status = jobModel.JobStatusComplete
	if refresh != nil {
		refresh(ctx)
	}
	return job
}

func (h *Handler) send(ctx context.Context, job jobModel.UploadJob) (api.UploadResponse, error) {
	if job.Open == nil {
		return api.UploadResponse{}, fmt.Errorf("no content for %s", job.FileName)
	}
	content, err := job.Open()
	if err != nil {
		return api.UploadResponse{}, fmt.Errorf("open %s: %w", job.FileName, err)
	}
	defer content.Close()
	return h.uploader.UploadDocument(ctx, job.FileName, content)
}
