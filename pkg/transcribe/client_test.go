package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"infosight-worker/config"
)

func writeMediaFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reflection.mp4")
	if err := os.WriteFile(path, []byte("fake video bytes"), 0644); err != nil {
		t.Fatalf("write media file: %v", err)
	}
	return path
}

func TestTranscribe(t *testing.T) {
	var gotModel string
	var gotFileName string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}
		gotModel = r.FormValue("model")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("read form file: %v", err)
		}
		file.Close()
		gotFileName = header.Filename
		if err := json.NewEncoder(w).Encode(map[string]string{"text": "hello from the transcript"}); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(config.Transcribe{URL: server.URL, APIKey: "test", Model: "whisper-1"})
	text, err := client.Transcribe(context.Background(), writeMediaFile(t))
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if text != "hello from the transcript" {
		t.Fatalf("unexpected transcript: %q", text)
	}
	if gotModel != "whisper-1" {
		t.Fatalf("expected model whisper-1, got %q", gotModel)
	}
	if gotFileName != "reflection.mp4" {
		t.Fatalf("expected original file name, got %q", gotFileName)
	}
}

func TestTranscribeDeadlineExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "too late"})
	}))
	defer server.Close()

	client := NewClient(config.Transcribe{URL: server.URL, Model: "whisper-1"})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Transcribe(ctx, writeMediaFile(t))
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestTranscribeHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	client := NewClient(config.Transcribe{URL: server.URL, Model: "whisper-1"})
	_, err := client.Transcribe(context.Background(), writeMediaFile(t))
	if err == nil {
		t.Fatal("expected error for http 502")
	}
	if errors.Is(err, ErrTimeout) {
		t.Fatalf("http error must not look like a timeout: %v", err)
	}
}

func TestTranscribeEmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "  "})
	}))
	defer server.Close()

	client := NewClient(config.Transcribe{URL: server.URL, Model: "whisper-1"})
	if _, err := client.Transcribe(context.Background(), writeMediaFile(t)); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}
