// Package openai is a minimal client for the hosted OpenAI HTTP API,
// covering chat completions and audio transcriptions.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	mHttp "github.com/colebaker/mise/internal/http"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	completionsPath    = "/chat/completions"
	transcriptionsPath = "/audio/transcriptions"

	// WhisperModel is the transcription model sent with audio uploads.
	WhisperModel = "whisper-1"

	completionTemperature = 0.7
)

var (
	ErrNoChoices  = errors.New("completion returned no choices")
	ErrEmptyAudio = errors.New("empty audio payload")
)

// Client calls the OpenAI API with a per-user key. Construct one per
// request; the key comes from the caller's vault entry.
type Client struct {
	apiKey  string
	baseURL string
	http    mHttp.HTTPDoer
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API host, used by tests and self-hosted
// compatible endpoints.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPDoer overrides the HTTP client used for requests.
func WithHTTPDoer(doer mHttp.HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

func New(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    mHttp.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatCompletion sends a single user prompt to the given model and returns
// the first choice's message content.
func (c *Client) ChatCompletion(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: completionTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling completion request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, body)
	if err != nil {
		return "", fmt.Errorf("creating completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling completions: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := mHttp.ExpectStatus2xx(resp); err != nil {
		return "", fmt.Errorf("completions: %w", err)
	}

	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrNoChoices
	}
	return parsed.Choices[0].Message.Content, nil
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads audio bytes to the speech-to-text API and returns the
// transcript. The filename and MIME type are set explicitly; the upload's
// declared type is not forwarded as-is.
func (c *Client) Transcribe(ctx context.Context, filename, mimeType string, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("model", WhisperModel); err != nil {
		return "", fmt.Errorf("writing model field: %w", err)
	}
	part, err := createAudioPart(writer, filename, mimeType)
	if err != nil {
		return "", fmt.Errorf("creating audio part: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("writing audio part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalizing multipart body: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+transcriptionsPath, body.Bytes())
	if err != nil {
		return "", fmt.Errorf("creating transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling transcriptions: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := mHttp.ExpectStatus2xx(resp); err != nil {
		return "", fmt.Errorf("transcriptions: %w", err)
	}

	var parsed transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding transcription response: %w", err)
	}
	return parsed.Text, nil
}

func createAudioPart(writer *multipart.Writer, filename, mimeType string) (io.Writer, error) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", mimeType)
	return writer.CreatePart(header)
}
