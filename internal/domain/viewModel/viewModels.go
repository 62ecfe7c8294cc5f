package viewModel

import (
	"context"
	"time"
)

type ConfidenceBucket string

const (
	ConfidenceHigh   ConfidenceBucket = "high"
	ConfidenceMedium ConfidenceBucket = "medium"
	ConfidenceLow    ConfidenceBucket = "low"
)

// BucketFor uses strict comparisons, so 0.7 is medium and 0.4 is low.
func BucketFor(score float64) ConfidenceBucket {
	switch {
	case score > 0.7:
		return ConfidenceHigh
	case score > 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

type DocumentRow struct {
	DocId        string `json:"doc_id"`
	Filename     string `json:"filename"`
	UploadedAt   string `json:"uploaded_at"`
	NumSentences int    `json:"num_sentences"`
}

type DocumentsView struct {
	Rows []DocumentRow `json:"rows"`
	// LoadFailed keeps the placeholder from claiming the list is empty.
	LoadFailed bool `json:"load_failed"`
}

func (d DocumentsView) Empty() bool {
	return len(d.Rows) == 0
}

type AnswerCard struct {
	Index             int              `json:"index"`
	Answer            string           `json:"answer"`
	ConfidencePercent string           `json:"confidence_percent"`
	Bucket            ConfidenceBucket `json:"bucket"`
	SourceDocument    string           `json:"source_document"`
	SourceExcerpt     string           `json:"source_excerpt"`
}

type ResultsView struct {
	Question       string       `json:"question"`
	ProcessingTime string       `json:"processing_time"`
	Answers        []AnswerCard `json:"answers"`
}

func (r ResultsView) Empty() bool {
	return len(r.Answers) == 0
}

type AskMode string

const (
	AskStored AskMode = "stored"
	AskDirect AskMode = "direct"
)

// FormState echoes what the user last typed so a redirect does not wipe it.
type FormState struct {
	Question       string `json:"question,omitempty"`
	TopK           int    `json:"top_k,omitempty"`
	DirectText     string `json:"direct_text,omitempty"`
	DirectQuestion string `json:"direct_question,omitempty"`
	DirectTopK     int    `json:"direct_top_k,omitempty"`
}

// SessionView is what survives between a POST and the redirected GET.
type SessionView struct {
	Results   *ResultsView `json:"results,omitempty"`
	Mode      AskMode      `json:"mode,omitempty"`
	Form      FormState    `json:"form"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type PageView struct {
	Documents    DocumentsView
	Results      *ResultsView
	Form         FormState
	Loading      bool
	ErrorMessage string
	// BannerHideAfterMs is how long the browser keeps the banner up.
	BannerHideAfterMs int64
	ServiceURL        string
	Health            string
}

type ConfirmDeleteView struct {
	DocId    string
	Filename string
}

type ViewStore interface {
	GetView(ctx context.Context, sessionId string) (SessionView, bool)
	SaveView(ctx context.Context, sessionId string, view SessionView) error
	DeleteView(ctx context.Context, sessionId string)
}
