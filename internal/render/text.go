package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/akolanti/DocQA/internal/domain/viewModel"
)

const (
	NoDocumentsMessage = "No documents uploaded yet"
	NoAnswersMessage   = "No answers found. Try different question or documents."
)

// WriteDocumentsText prints one document per line for the CLI.
func WriteDocumentsText(w io.Writer, documents viewModel.DocumentsView) error {
	if documents.Empty() {
		_, err := fmt.Fprintln(w, NoDocumentsMessage)
		return err
	}
	for _, row := range documents.Rows {
		if _, err := fmt.Fprintf(w, "%s  %s  (%s • %d sentences)\n", row.DocId, row.Filename, row.UploadedAt, row.NumSentences); err != nil {
			return err
		}
	}
	return nil
}

func WriteResultsText(w io.Writer, results viewModel.ResultsView) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Q: %s\n%s\n", results.Question, results.ProcessingTime)
	if results.Empty() {
		fmt.Fprintln(&b, NoAnswersMessage)
	}
	for _, card := range results.Answers {
		fmt.Fprintf(&b, "\nAnswer %d: %s\n", card.Index, card.Answer)
		fmt.Fprintf(&b, "  Confidence: %s%% (%s)\n", card.ConfidencePercent, card.Bucket)
		fmt.Fprintf(&b, "  Source: %s\n", card.SourceDocument)
		fmt.Fprintf(&b, "  \"%s\"\n", card.SourceExcerpt)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
