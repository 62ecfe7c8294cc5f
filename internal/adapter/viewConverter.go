package adapter

import (
	"fmt"
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/viewModel"
)

const (
	uploadTimeLayout = "Jan 2, 03:04 PM"
	excerptEllipsis  = "..."
)

// layouts the QA service has been seen to emit for upload_time
var uploadTimeInputs = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func ToDocumentsView(res api.DocumentListResponse) viewModel.DocumentsView {
	rows := make([]viewModel.DocumentRow, 0, len(res.Documents))
	for _, doc := range res.Documents {
		rows = append(rows, viewModel.DocumentRow{
			DocId:        doc.DocId,
			Filename:     doc.Filename,
			UploadedAt:   FormatUploadTime(doc.UploadTime),
			NumSentences: doc.NumSentences,
		})
	}
	return viewModel.DocumentsView{Rows: rows}
}

func ToResultsView(res api.QAResponse) viewModel.ResultsView {
	cards := make([]viewModel.AnswerCard, 0, len(res.Answers))
	for i, answer := range res.Answers {
		cards = append(cards, viewModel.AnswerCard{
			Index:             i + 1,
			Answer:            answer.Answer,
			ConfidencePercent: FormatConfidence(answer.ConfidenceScore),
			Bucket:            viewModel.BucketFor(answer.ConfidenceScore),
			SourceDocument:    answer.SourceDocument,
			SourceExcerpt:     TruncateExcerpt(answer.SourceText, config.SourceExcerptLimit),
		})
	}
	return viewModel.ResultsView{
		Question:       res.Question,
		ProcessingTime: FormatProcessingTime(res.ProcessingTime),
		Answers:        cards,
	}
}

// FormatUploadTime renders the service timestamp; unparseable input is shown raw.
func FormatUploadTime(raw string) string {
	for _, layout := range uploadTimeInputs {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(uploadTimeLayout)
		}
	}
	return raw
}

// FormatConfidence turns a [0,1] score into a percentage with one decimal.
// An exact tie rounds up, so 0.8125 reads 81.3.
func FormatConfidence(score float64) string {
	pct := score * 100
	tenths := pct * 10
	if floor := math.Floor(tenths); tenths-floor == 0.5 {
		pct = (floor + 1) / 10
	}
	return strconv.FormatFloat(pct, 'f', 1, 64)
}

func FormatProcessingTime(seconds float64) string {
	return fmt.Sprintf("Processing time: %ss", strconv.FormatFloat(seconds, 'f', -1, 64))
}

// TruncateExcerpt keeps the first limit characters and marks the cut.
func TruncateExcerpt(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + excerptEllipsis
}

// FormatHealth is the one-line service status shown in the page header.
func FormatHealth(res api.HealthResponse) string {
	if res.Model == "" {
		return res.Status
	}
	return res.Status + " (" + res.Model + ")"
}
