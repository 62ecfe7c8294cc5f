package adapter

import (
	"errors"

	"github.com/akolanti/DocQA/internal/api"
)

const (
	MsgUnsupportedFiles   = "Please upload PDF, DOCX, or TXT files only"
	MsgEmptyQuestion      = "Please enter a question"
	MsgEmptyDirectFields  = "Please enter both text and question"
	MsgUploadFallback     = "Failed to upload document"
	MsgDeleteFallback     = "Failed to delete document"
	MsgAnswerFallback     = "Failed to get answer"
	MsgServiceUnreachable = "could not reach the QA service"

	UploadFailedPrefix = "Upload failed: "
	DeleteFailedPrefix = "Delete failed: "
)

// ToUserMessage picks what the banner shows for err: validation messages as
// is, the service detail when it sent one, the fallback for other service
// errors, and a generic line for transport failures.
func ToUserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var validation *api.ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}
	var serviceErr *api.ServiceError
	if errors.As(err, &serviceErr) {
		if serviceErr.Detail != "" {
			return serviceErr.Detail
		}
		return fallback
	}
	return fallback + ": " + MsgServiceUnreachable
}

func ToUIError(httpCode int, message string, traceId string) api.UIErrorResponse {
	return api.UIErrorResponse{
		Code:    httpCode,
		Message: message,
		TraceId: traceId,
	}
}
