package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDetectMimeType(t *testing.T) {
	cases := map[string]string{
		"report.pdf":   mimePDF,
		"Report.PDF":   mimePDF,
		"notes.docx":   mimeDOCX,
		"archive.zip":  "",
		"no-extension": "",
	}
	for name, want := range cases {
		if got := DetectMimeType(name); got != want {
			t.Fatalf("DetectMimeType(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestDocxExtractorTextRuns(t *testing.T) {
	data := []byte(`<w:p><w:t xml:space="preserve">revenue grew</w:t><w:t>ten percent</w:t></w:p>`)
	extractor := ExtractorFor(mimeDOCX, &fakeLLM{})
	result := extractor.Extract(context.Background(), "notes.docx", data)
	if !result.OK {
		t.Fatalf("expected successful extraction, got %+v", result)
	}
	if result.Text != "revenue grew ten percent" {
		t.Fatalf("unexpected text: %q", result.Text)
	}
}

func TestDocxExtractorASCIIFallback(t *testing.T) {
	words := strings.Repeat("meaningful ", 25)
	data := append([]byte{0x00, 0x01, 0x02}, []byte(words)...)
	extractor := ExtractorFor(mimeDOCX, &fakeLLM{})
	result := extractor.Extract(context.Background(), "notes.docx", data)
	if !result.OK {
		t.Fatalf("expected ASCII fallback to succeed, got %+v", result)
	}
	if !strings.Contains(result.Text, "meaningful") {
		t.Fatalf("unexpected text: %q", result.Text)
	}
}

func TestDocxExtractorLLMFallback(t *testing.T) {
	// Binary-looking payload with no text runs and too few readable words.
	data := []byte{0x50, 0x4b, 0x03, 0x04, 0x00, 0x01, 0x02, 0x03}
	llmClient := &fakeLLM{plainReply: "Probably a quarterly planning document."}
	extractor := ExtractorFor(mimeDOCX, llmClient)
	result := extractor.Extract(context.Background(), "notes.docx", data)
	if !result.OK {
		t.Fatalf("expected LLM fallback to succeed, got %+v", result)
	}
	if result.Text != "Probably a quarterly planning document." {
		t.Fatalf("unexpected text: %q", result.Text)
	}
}

func TestDocxExtractorAllStrategiesFail(t *testing.T) {
	data := []byte{0x50, 0x4b, 0x03, 0x04}
	llmClient := &fakeLLM{plainErr: errors.New("model unavailable")}
	extractor := ExtractorFor(mimeDOCX, llmClient)
	result := extractor.Extract(context.Background(), "notes.docx", data)
	if result.OK {
		t.Fatal("expected extraction failure")
	}
	if result.Text != extractionPlaceholder {
		t.Fatalf("expected placeholder text, got %q", result.Text)
	}
}

func TestPDFExtractor(t *testing.T) {
	llmClient := &fakeLLM{visionReply: "Extracted PDF body."}
	extractor := ExtractorFor(mimePDF, llmClient)
	result := extractor.Extract(context.Background(), "report.pdf", []byte("%PDF-1.4"))
	if !result.OK || result.Text != "Extracted PDF body." {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestPDFExtractorFailure(t *testing.T) {
	llmClient := &fakeLLM{visionErr: errors.New("bad request")}
	extractor := ExtractorFor(mimePDF, llmClient)
	result := extractor.Extract(context.Background(), "report.pdf", []byte("%PDF-1.4"))
	if result.OK {
		t.Fatal("expected extraction failure")
	}
	if result.Text != extractionPlaceholder {
		t.Fatalf("expected placeholder text, got %q", result.Text)
	}
}

func TestUnsupportedExtractor(t *testing.T) {
	extractor := ExtractorFor("", &fakeLLM{})
	result := extractor.Extract(context.Background(), "archive.zip", []byte("data"))
	if result.OK {
		t.Fatal("expected unsupported type to fail extraction")
	}
}

func TestReadableASCIIWordsRejectsShortContent(t *testing.T) {
	if got := readableASCIIWords([]byte("only a few words here")); got != "" {
		t.Fatalf("expected rejection of short content, got %q", got)
	}
}
