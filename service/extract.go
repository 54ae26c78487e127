package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"infosight-worker/pkg/llm"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	extractionPlaceholder = "Document content could not be extracted"
)

// ExtractResult is the typed outcome of a document extraction attempt.
// OK=false means Text holds a human-readable placeholder, never an error:
// extraction failure must not stop the pipeline.
type ExtractResult struct {
	Text string
	OK   bool
}

// DocumentExtractor turns raw document bytes into readable text.
type DocumentExtractor interface {
	Extract(ctx context.Context, name string, data []byte) ExtractResult
}

// DetectMimeType maps a file name onto the handful of document types the
// pipeline understands.
func DetectMimeType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return mimePDF
	case ".docx":
		return mimeDOCX
	default:
		return ""
	}
}

// ExtractorFor selects the extraction strategy for a MIME type.
func ExtractorFor(mimeType string, llmClient llm.Client) DocumentExtractor {
	switch mimeType {
	case mimePDF:
		return &pdfExtractor{llm: llmClient}
	case mimeDOCX:
		return &docxExtractor{llm: llmClient}
	default:
		return unsupportedExtractor{}
	}
}

type pdfExtractor struct {
	llm llm.Client
}

const pdfExtractionPrompt = "Extract all readable text from this PDF document. " +
	"Return the plain text content only, without commentary."

func (e *pdfExtractor) Extract(ctx context.Context, name string, data []byte) ExtractResult {
	text, err := e.llm.CompleteVision(ctx, pdfExtractionPrompt, mimePDF, data)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("document", name).Msg("pdf extraction failed")
		return ExtractResult{Text: extractionPlaceholder, OK: false}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ExtractResult{Text: extractionPlaceholder, OK: false}
	}
	return ExtractResult{Text: text, OK: true}
}

type docxExtractor struct {
	llm llm.Client
}

var docxTextRun = regexp.MustCompile(`<w:t[^>]*>([^<]+)</w:t>`)

// Extract tries three strategies in order: XML text runs found in the raw
// bytes, a readable-ASCII word scan, and finally asking the model to infer
// content from a truncated base64 slice.
func (e *docxExtractor) Extract(ctx context.Context, name string, data []byte) ExtractResult {
	if text := scanDocxTextRuns(data); text != "" {
		return ExtractResult{Text: text, OK: true}
	}

	if text := readableASCIIWords(data); text != "" {
		return ExtractResult{Text: text, OK: true}
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	const sliceLimit = 8000
	if len(encoded) > sliceLimit {
		encoded = encoded[:sliceLimit]
	}
	prompt := fmt.Sprintf(
		"The following is a truncated base64 slice of a DOCX file named %q. "+
			"Describe what content the document most likely contains, as plain text:\n\n%s",
		name, encoded)
	text, err := e.llm.Complete(ctx, "You summarize document contents.", prompt)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("document", name).Msg("docx extraction fallback failed")
		return ExtractResult{Text: extractionPlaceholder, OK: false}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ExtractResult{Text: extractionPlaceholder, OK: false}
	}
	return ExtractResult{Text: text, OK: true}
}

func scanDocxTextRuns(data []byte) string {
	matches := docxTextRun.FindAllSubmatch(data, -1)
	if len(matches) == 0 {
		return ""
	}
	parts := make([]string, 0, len(matches))
	for _, match := range matches {
		if run := strings.TrimSpace(string(match[1])); run != "" {
			parts = append(parts, run)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// readableASCIIWords scans raw bytes for runs of printable ASCII that look
// like words. A document that yields fewer than twenty such words is treated
// as unreadable.
func readableASCIIWords(data []byte) string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() >= 4 && hasLetter(current.String()) {
			words = append(words, current.String())
		}
		current.Reset()
	}
	for _, b := range data {
		if b >= 0x20 && b < 0x7f && b != ' ' {
			current.WriteByte(b)
			continue
		}
		flush()
	}
	flush()

	if len(words) < 20 {
		return ""
	}
	return strings.Join(words, " ")
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

type unsupportedExtractor struct{}

func (unsupportedExtractor) Extract(ctx context.Context, name string, data []byte) ExtractResult {
	return ExtractResult{Text: extractionPlaceholder, OK: false}
}
