package api

import "encoding/json"

// Contracts of the QA service REST API.

type DocumentSummary struct {
	DocId        string `json:"doc_id"`
	Filename     string `json:"filename"`
	UploadTime   string `json:"upload_time"` //naive ISO-8601, the service omits the zone
	TextLength   int    `json:"text_length"`
	NumSentences int    `json:"num_sentences"`
}

type DocumentListResponse struct {
	Documents  []DocumentSummary `json:"documents"`
	TotalCount int               `json:"total_count"`
}

type UploadResponse struct {
	Message  string `json:"message"`
	DocId    string `json:"doc_id"`
	Filename string `json:"filename"`
}

type MessageResponse struct {
	Message string `json:"message"`
	DocId   string `json:"doc_id,omitempty"`
}

type AnswerResult struct {
	Answer          string  `json:"answer"`
	ConfidenceScore float64 `json:"confidence_score"`
	SourceDocument  string  `json:"source_document"`
	SourceText      string  `json:"source_text"`
	StartPosition   int     `json:"start_position"`
	EndPosition     int     `json:"end_position"`
}

type QAResponse struct {
	Question       string         `json:"question"`
	Answers        []AnswerResult `json:"answers"`
	ProcessingTime float64        `json:"processing_time"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	QAEngine string `json:"qa_engine"`
	Model    string `json:"model"`
}

// ErrorResponse is the body of a non-2xx reply. Detail is a string for
// handled errors and an array for request validation failures.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail,omitempty"`
}

// Message returns detail when it is a non-empty string.
func (e ErrorResponse) Message() string {
	var s string
	if len(e.Detail) == 0 || json.Unmarshal(e.Detail, &s) != nil {
		return ""
	}
	return s
}

// requests---------------------

type QuestionRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

type DirectTextRequest struct {
	Text     string `json:"text"`
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

// UI server---------------------

type StatusResponse struct {
	Loading  bool   `json:"loading"`
	InFlight int    `json:"in_flight"`
	Error    string `json:"error,omitempty"`
}

type UIErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TraceId string `json:"trace_id,omitempty"`
}
