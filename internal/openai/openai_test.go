package openai

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChatCompletion(t *testing.T) {
	var gotAuth, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"name":"Toast"}`}},
			},
		})
	}))
	defer server.Close()

	client := New("sk-test", WithBaseURL(server.URL))
	content, err := client.ChatCompletion(context.Background(), "gpt-4o-mini", "structure this recipe")
	if err != nil {
		t.Fatalf("ChatCompletion failed: %v", err)
	}

	if content != `{"name":"Toast"}` {
		t.Errorf("unexpected content %q", content)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("unexpected authorization header %q", gotAuth)
	}
	if !strings.Contains(gotBody, `"model":"gpt-4o-mini"`) {
		t.Errorf("request body missing model: %s", gotBody)
	}
	if !strings.Contains(gotBody, "structure this recipe") {
		t.Errorf("request body missing prompt: %s", gotBody)
	}
}

func TestChatCompletionNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := New("sk-test", WithBaseURL(server.URL))
	if _, err := client.ChatCompletion(context.Background(), "gpt-4o-mini", "prompt"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestChatCompletionUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New("sk-bad", WithBaseURL(server.URL))
	if _, err := client.ChatCompletion(context.Background(), "gpt-4o-mini", "prompt"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		if got := r.FormValue("model"); got != WhisperModel {
			t.Errorf("model = %q, want %q", got, WhisperModel)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("reading file part: %v", err)
		}
		defer func() { _ = file.Close() }()
		if header.Filename != "audio.webm" {
			t.Errorf("filename = %q, want audio.webm", header.Filename)
		}
		if got := header.Header.Get("Content-Type"); got != "audio/webm" {
			t.Errorf("part content type = %q, want audio/webm", got)
		}
		_, _ = w.Write([]byte(`{"text":"chop the onions"}`))
	}))
	defer server.Close()

	client := New("sk-test", WithBaseURL(server.URL))
	text, err := client.Transcribe(context.Background(), "audio.webm", "audio/webm", []byte("fake-bytes"))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "chop the onions" {
		t.Errorf("unexpected transcript %q", text)
	}
}

func TestTranscribeEmptyAudio(t *testing.T) {
	client := New("sk-test")
	if _, err := client.Transcribe(context.Background(), "audio.webm", "audio/webm", nil); err == nil {
		t.Fatal("expected error for empty audio")
	}
}

func TestEstimateUsage(t *testing.T) {
	// One minute of 16 kHz 16-bit mono PCM.
	usage := EstimateUsage(16000 * 2 * 60)

	if math.Abs(usage.DurationInMinutes-1.0) > 1e-9 {
		t.Errorf("duration = %f, want 1.0", usage.DurationInMinutes)
	}
	if math.Abs(usage.CostInCents-0.6) > 1e-9 {
		t.Errorf("cost = %f, want 0.6", usage.CostInCents)
	}

	if zero := EstimateUsage(0); zero.DurationInMinutes != 0 || zero.CostInCents != 0 {
		t.Errorf("expected zero usage for empty file, got %+v", zero)
	}
}
