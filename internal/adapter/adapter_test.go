package adapter

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/domain/viewModel"
)

func TestTruncateExcerpt(t *testing.T) {
	long := strings.Repeat("a", 250)
	got := TruncateExcerpt(long, 200)
	if got != strings.Repeat("a", 200)+"..." {
		t.Errorf("250 chars truncated to %d chars: %q", len(got), got)
	}

	short := strings.Repeat("b", 150)
	if got := TruncateExcerpt(short, 200); got != short {
		t.Errorf("150 chars should be unchanged, got %q", got)
	}

	exact := strings.Repeat("c", 200)
	if got := TruncateExcerpt(exact, 200); got != exact {
		t.Error("exactly 200 chars should not get an ellipsis")
	}

	multi := strings.Repeat("é", 201)
	if got := TruncateExcerpt(multi, 200); got != strings.Repeat("é", 200)+"..." {
		t.Error("truncation must count characters, not bytes")
	}
}

func TestFormatConfidence(t *testing.T) {
	tests := map[float64]string{
		0.75: "75.0", 0.5: "50.0", 0.1234: "12.3", 1: "100.0", 0: "0.0",
		0.0625: "6.3", 0.8125: "81.3", 0.3125: "31.3", 0.9375: "93.8",
	}
	for in, want := range tests {
		if got := FormatConfidence(in); got != want {
			t.Errorf("FormatConfidence(%v) = %s; want %s", in, got, want)
		}
	}
}

func TestFormatUploadTime(t *testing.T) {
	tests := []struct{ in, want string }{
		{"2024-03-05T14:07:00.123456", "Mar 5, 02:07 PM"},
		{"2024-03-05T09:30:00", "Mar 5, 09:30 AM"},
		{"2024-12-25T23:59:59Z", "Dec 25, 11:59 PM"},
		{"yesterday", "yesterday"},
	}
	for _, tt := range tests {
		if got := FormatUploadTime(tt.in); got != tt.want {
			t.Errorf("FormatUploadTime(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestToResultsView(t *testing.T) {
	res := api.QAResponse{
		Question:       "who?",
		ProcessingTime: 0.123,
		Answers: []api.AnswerResult{
			{Answer: "first", ConfidenceScore: 0.75, SourceDocument: "a.pdf", SourceText: strings.Repeat("x", 250)},
			{Answer: "second", ConfidenceScore: 0.5, SourceDocument: "b.txt", SourceText: "short"},
			{Answer: "third", ConfidenceScore: 0.3, SourceDocument: "c.docx", SourceText: ""},
		},
	}

	view := ToResultsView(res)
	if view.ProcessingTime != "Processing time: 0.123s" {
		t.Errorf("processing time = %q", view.ProcessingTime)
	}
	wantBuckets := []viewModel.ConfidenceBucket{viewModel.ConfidenceHigh, viewModel.ConfidenceMedium, viewModel.ConfidenceLow}
	for i, card := range view.Answers {
		if card.Index != i+1 {
			t.Errorf("card %d index = %d", i, card.Index)
		}
		if card.Bucket != wantBuckets[i] {
			t.Errorf("card %d bucket = %s; want %s", i, card.Bucket, wantBuckets[i])
		}
	}
	if !strings.HasSuffix(view.Answers[0].SourceExcerpt, "...") || len(view.Answers[0].SourceExcerpt) != 203 {
		t.Errorf("excerpt not truncated: %q", view.Answers[0].SourceExcerpt)
	}
	if ToResultsView(api.QAResponse{}).Empty() != true {
		t.Error("no answers should give an empty view")
	}
}

func TestToDocumentsView(t *testing.T) {
	view := ToDocumentsView(api.DocumentListResponse{Documents: []api.DocumentSummary{
		{DocId: "1", Filename: "a.pdf", UploadTime: "2024-03-05T14:07:00", NumSentences: 12},
	}})
	if len(view.Rows) != 1 || view.Rows[0].UploadedAt != "Mar 5, 02:07 PM" || view.Rows[0].NumSentences != 12 {
		t.Errorf("unexpected rows: %+v", view.Rows)
	}
	if !ToDocumentsView(api.DocumentListResponse{}).Empty() {
		t.Error("empty response should give an empty view")
	}
}

func TestToUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", api.NewValidationError(MsgEmptyQuestion), MsgEmptyQuestion},
		{"service detail", &api.ServiceError{StatusCode: 400, Detail: "No documents uploaded. Please upload documents first."}, "No documents uploaded. Please upload documents first."},
		{"wrapped service detail", fmt.Errorf("ask: %w", &api.ServiceError{StatusCode: 404, Detail: "Document not found"}), "Document not found"},
		{"service without detail", &api.ServiceError{StatusCode: 500}, MsgAnswerFallback},
		{"transport", errors.New("dial tcp: connection refused"), MsgAnswerFallback + ": " + MsgServiceUnreachable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToUserMessage(tt.err, MsgAnswerFallback); got != tt.want {
				t.Errorf("got %q; want %q", got, tt.want)
			}
		})
	}
}

func TestFormatHealth(t *testing.T) {
	if got := FormatHealth(api.HealthResponse{Status: "healthy", Model: "distilbert"}); got != "healthy (distilbert)" {
		t.Errorf("got %q", got)
	}
	if got := FormatHealth(api.HealthResponse{Status: "degraded"}); got != "degraded" {
		t.Errorf("got %q", got)
	}
}
