package llm

import (
	"testing"
)

func TestDecodeJSONDirect(t *testing.T) {
	var parsed struct {
		Sentiment string `json:"sentiment"`
	}
	if err := DecodeJSON(`{"sentiment":"positive"}`, &parsed); err != nil {
		t.Fatalf("DecodeJSON returned error: %v", err)
	}
	if parsed.Sentiment != "positive" {
		t.Fatalf("expected sentiment positive, got %q", parsed.Sentiment)
	}
}

func TestDecodeJSONCodeFence(t *testing.T) {
	content := "```json\n{\"sentiment\":\"negative\"}\n```"
	var parsed struct {
		Sentiment string `json:"sentiment"`
	}
	if err := DecodeJSON(content, &parsed); err != nil {
		t.Fatalf("DecodeJSON returned error: %v", err)
	}
	if parsed.Sentiment != "negative" {
		t.Fatalf("expected sentiment negative, got %q", parsed.Sentiment)
	}
}

func TestDecodeJSONSurroundingProse(t *testing.T) {
	content := "Here is the analysis you asked for:\n{\"key_points\":[\"a\",\"b\"]}\nLet me know if you need anything else."
	var parsed struct {
		KeyPoints []string `json:"key_points"`
	}
	if err := DecodeJSON(content, &parsed); err != nil {
		t.Fatalf("DecodeJSON returned error: %v", err)
	}
	if len(parsed.KeyPoints) != 2 {
		t.Fatalf("expected 2 key points, got %d", len(parsed.KeyPoints))
	}
}

func TestDecodeJSONArray(t *testing.T) {
	var parsed []string
	if err := DecodeJSON("```\n[\"x\",\"y\"]\n```", &parsed); err != nil {
		t.Fatalf("DecodeJSON returned error: %v", err)
	}
	if len(parsed) != 2 || parsed[0] != "x" {
		t.Fatalf("unexpected payload: %v", parsed)
	}
}

func TestDecodeJSONGarbage(t *testing.T) {
	var parsed struct{}
	if err := DecodeJSON("I could not produce the analysis.", &parsed); err == nil {
		t.Fatal("expected error for non-JSON payload")
	}
}

func TestDecodeJSONEmpty(t *testing.T) {
	var parsed struct{}
	if err := DecodeJSON("   ", &parsed); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestStripCodeFenceVariants(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		`{"a":1}`:                 `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
	}
	for input, want := range cases {
		if got := StripCodeFence(input); got != want {
			t.Fatalf("StripCodeFence(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSanitizeJSONPayloadBraceExtraction(t *testing.T) {
	got := SanitizeJSONPayload("noise before {\"a\": {\"b\": 1}} noise after")
	if got != `{"a": {"b": 1}}` {
		t.Fatalf("unexpected sanitized payload: %q", got)
	}
}
