// Package transcribe contains the speech-to-text handler.
package transcribe

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apiError "github.com/colebaker/mise/internal/api/error"
	"github.com/colebaker/mise/internal/api/requestid"
	"github.com/colebaker/mise/internal/api/session"
	"github.com/colebaker/mise/internal/env"
	"github.com/colebaker/mise/internal/form"
	"github.com/colebaker/mise/internal/openai"
	"github.com/colebaker/mise/internal/vault"
)

const maxAudioSize = 25 << 20 // whisper upload limit

type TranscribeResponse struct {
	Transcription string       `json:"transcription"`
	Usage         openai.Usage `json:"usage"`
}

// HandleSpeechToText godoc
//
//	@Summary		Transcribe an audio upload with the caller's OpenAI key.
//	@Description	Accepts multipart/form-data with an "audio" file, re-derives
//	@Description	its MIME type by sniffing, and forwards it to the upstream
//	@Description	transcription endpoint.
//	@Tags			Transcribe
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			audio	formData	file	true	"Audio file (max 25 MB)"
//	@Success		200		{object}	TranscribeResponse
//	@Failure		400		{object}	apiError.Error	"Missing file, unsupported type, or no stored API key"
//	@Failure		401		{object}	apiError.Error	"Authentication required"
//	@Failure		500		{object}	apiError.Error	"Upstream failure"
//	@Security		AccessTokenCookie
//	@Router			/api/speech-to-text [post]
func HandleSpeechToText(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	sess, err := session.FromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract session from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioSize)
	if err := r.ParseMultipartForm(maxAudioSize); err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse multipart form", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "request too large", requestID)
		return
	}
	upload, err := form.FormFile(r, "audio")
	if errors.Is(err, form.ErrNoFileUploaded) {
		env.Logger.ErrorContext(ctx, "no audio file provided", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "no audio file provided", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to open audio upload", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}
	audio, err := form.ReadAudio(upload, maxAudioSize)
	if errors.Is(err, form.ErrUnsupportedMimeType) {
		env.Logger.ErrorContext(ctx, "unsupported audio type", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "unsupported audio type", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to read audio upload", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	apiKey, err := env.Vault.DecryptedAPIKey(ctx, env.Database, sess.Email)
	if errors.Is(err, vault.ErrNoAPIKey) {
		env.Logger.ErrorContext(ctx, "no api key stored for user")
		_ = apiError.EncodeError(w, apiError.MissingAPIKey, "OpenAI API key not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to decrypt api key", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// The upload is re-wrapped with a sniffed type and filename, the
	// client's claimed metadata is not trusted.
	env.Logger.DebugContext(ctx, "transcribing audio",
		slog.Int64("size", audio.Size), slog.String("mime-type", audio.MimeType))
	opts := []openai.Option{openai.WithHTTPDoer(env.HTTP)}
	if env.Config.OpenAI.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(env.Config.OpenAI.BaseURL))
	}
	client := openai.New(apiKey, opts...)
	transcription, err := client.Transcribe(ctx, "audio"+audio.Suffix, audio.MimeType, audio.Data)
	if err != nil {
		env.Logger.ErrorContext(ctx, "transcription failed", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UpstreamFailure, "transcription failed", requestID)
		return
	}

	resp, err := json.Marshal(TranscribeResponse{
		Transcription: transcription,
		Usage:         openai.EstimateUsage(audio.Size),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		return
	}
}
