package services

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"rag-chatbot-backend/internal/logger"

	"github.com/ledongthuc/pdf"
)

// TextExtractor converts an uploaded binary document into a single normalized
// string. Whether the result is empty is judged by the caller, not here.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor { return &TextExtractor{} }

// Extract dispatches on the file type determined from the upload's extension.
func (e *TextExtractor) Extract(fileType string, content []byte) (string, error) {
	switch fileType {
	case "pdf":
		return e.extractPDF(content)
	case "txt":
		return e.extractTxt(content)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, fileType)
	}
}

// extractPDF concatenates the extracted text of every page in order,
// separated by newlines. A page that fails to yield text is skipped.
func (e *TextExtractor) extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: unable to parse PDF: %v", ErrExtraction, err)
	}

	var textBuilder strings.Builder
	pages := reader.NumPage()

	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			logger.Warn("Failed to extract text from page", "page", i, "error", err)
			continue
		}

		if text != "" {
			textBuilder.WriteString(text)
			textBuilder.WriteString("\n")
		}
	}

	extracted := strings.TrimSpace(textBuilder.String())
	logger.Info("Extracted text from PDF", "pages", pages, "characters", len(extracted))
	return extracted, nil
}

// extractTxt decodes the upload as UTF-8 text.
func (e *TextExtractor) extractTxt(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: file is not valid UTF-8 text", ErrExtraction)
	}

	extracted := strings.TrimSpace(string(content))
	logger.Info("Extracted text from TXT", "characters", len(extracted))
	return extracted, nil
}
