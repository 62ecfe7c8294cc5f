// Package extract reads the plain text of a local PDF, DOCX or TXT file so it
// can be sent as the text of a direct question.
package extract

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/akolanti/DocQA/internal/domain/commonModels"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

// pageTimeout bounds a single PDF page; some malformed pages never return.
const pageTimeout = 10 * time.Second

var ErrUnsupported = errors.New("unsupported file type")

var logger = logger_i.NewLogger("Extract")

// Text returns the content of path, chosen by its extension.
func Text(path string) (string, error) {
	switch commonModels.DocTypeOf(path) {
	case commonModels.PDF:
		return extractPDF(path)
	case commonModels.DOCX:
		return extractDocx(path)
	case commonModels.TXT:
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
}

func extractPDF(path string) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var text strings.Builder
	numPages := f.NumPage()
	logger.Debug("Extracting pdf", "path", path, "pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := protectExtract(page)
		if err != nil {
			// one bad page should not lose the rest
			logger.Warn("Error parsing page content", "page", i, "error", err)
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n")
		}
		text.WriteString(content)
	}
	return text.String(), nil
}

func extractDocx(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("failed to extract docx: %w", err)
	}
	return text, nil
}

func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(pageTimeout):
		return "", errors.New("page extraction timed out")
	}
}
