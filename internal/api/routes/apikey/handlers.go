// Package apikey contains handlers for the OpenAI credential endpoints.
package apikey

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apiError "github.com/colebaker/mise/internal/api/error"
	"github.com/colebaker/mise/internal/api/requestid"
	"github.com/colebaker/mise/internal/api/session"
	"github.com/colebaker/mise/internal/database"
	"github.com/colebaker/mise/internal/env"
	mJson "github.com/colebaker/mise/internal/json"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// HandleCheckAPIKey godoc
//
//	@Summary	Report whether the caller has a stored OpenAI API key.
//	@Tags		APIKey
//	@Produce	json
//	@Success	200	{object}	CheckAPIKeyResponse
//	@Failure	401	{object}	apiError.Error	"Authentication required"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Security	AccessTokenCookie
//	@Router		/api/check-api-key [get]
func HandleCheckAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	sess, err := session.FromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract session from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// The key itself never leaves the server, only its presence.
	ciphertext, err := env.Database.GetUserAPIKeyCiphertext(ctx, sess.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		ciphertext = pgtype.Text{}
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to read api key ciphertext", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	resp, err := json.Marshal(CheckAPIKeyResponse{
		HasKey: ciphertext.Valid && ciphertext.String != "",
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

// HandleStoreAPIKey godoc
//
//	@Summary		Store the caller's OpenAI API key.
//	@Description	Encrypts the key with the server vault before persisting.
//	@Tags			APIKey
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	StoreAPIKeyResponse
//	@Failure		400	{object}	apiError.Error	"Missing API key"
//	@Failure		401	{object}	apiError.Error	"Authentication required"
//	@Failure		500	{object}	apiError.Error	"Internal server error"
//	@Security		AccessTokenCookie
//	@Router			/api/store-api-key [post]
func HandleStoreAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	sess, err := session.FromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract session from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	var request StoreAPIKeyRequest
	if err := mJson.DecodeJSON(&request, json.NewDecoder(r.Body)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "API key is required", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "encrypting api key")
	ciphertext, err := env.Vault.Encrypt(request.APIKey)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to encrypt api key", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	err = env.Database.SetUserAPIKeyCiphertext(ctx, database.SetUserAPIKeyCiphertextParams{
		Email:      sess.Email,
		Ciphertext: pgtype.Text{String: ciphertext, Valid: true},
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to store api key", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeSuccess(w, r)
}

// HandleDeleteAPIKey godoc
//
//	@Summary	Remove the caller's stored OpenAI API key.
//	@Tags		APIKey
//	@Produce	json
//	@Success	200	{object}	StoreAPIKeyResponse
//	@Failure	401	{object}	apiError.Error	"Authentication required"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Security	AccessTokenCookie
//	@Router		/api/store-api-key [delete]
func HandleDeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	sess, err := session.FromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract session from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Clearing sets the column to NULL rather than deleting the row.
	err = env.Database.SetUserAPIKeyCiphertext(ctx, database.SetUserAPIKeyCiphertextParams{
		Email:      sess.Email,
		Ciphertext: pgtype.Text{},
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to delete api key", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeSuccess(w, r)
}

func writeSuccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)

	resp, err := json.Marshal(StoreAPIKeyResponse{Success: true})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, strconv.FormatUint(requestid.ExtractRequestID(ctx), 10))
		return
	}
	w.Header().Add("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
		return
	}
}
