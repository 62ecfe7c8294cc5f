package jobModel

import (
	"io"
	"time"
)

type JobStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"
)

// UploadJob forwards one file to the QA service.
type UploadJob struct {
	Id          string    `json:"id"`
	TraceId     string    `json:"trace_id"`
	FileName    string    `json:"file_name"`
	DocId       string    `json:"doc_id,omitempty"`
	Error       string    `json:"error,omitempty"`
	Status      JobStatus `json:"status"`
	CreatedTime time.Time `json:"created_time"`
	EndTime     time.Time `json:"end_time,omitempty"`

	Open func() (io.ReadCloser, error) `json:"-"`
}

func (j UploadJob) Succeeded() bool {
	return j.Status == JobStatusComplete
}
