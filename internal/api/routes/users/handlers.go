// Package users contains handlers for the profile endpoints.
package users

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
	"github.com/colebaker/mise/internal/form"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const maxAvatarSize = 5 << 20 // 5 MB

// HandleGetMe godoc
//
//	@Summary	Fetch the caller's profile.
//	@Tags		Users
//	@Produce	json
//	@Success	200	{object}	ProfileResponse
//	@Failure	401	{object}	apiError.Error	"Authentication required"
//	@Failure	404	{object}	apiError.Error	"User not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Security	AccessTokenCookie
//	@Router		/api/users/me [get]
func HandleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	sess, err := session.FromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract session from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	user, err := env.Database.GetUserByID(ctx, sess.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to fetch user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeJSON(w, r, ProfileResponse{
		ID:    user.ID,
		Name:  user.Name.String,
		Email: user.Email,
		Image: user.Image.String,
	})
}

// HandleUploadAvatar godoc
//
//	@Summary		Upload a profile picture.
//	@Description	Accepts multipart/form-data with an "image" file. The type
//	@Description	is sniffed from content, not the client's claim.
//	@Tags			Users
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image	formData	file	true	"Avatar image (JPEG/PNG/WebP/GIF, max 5 MB)"
//	@Success		200		{object}	UploadAvatarResponse
//	@Failure		400		{object}	apiError.Error	"Missing file or unsupported type"
//	@Failure		401		{object}	apiError.Error	"Authentication required"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//	@Security		AccessTokenCookie
//	@Router			/api/users/me/avatar [post]
func HandleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
	sess, err := session.FromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract session from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if env.FileStore == nil {
		env.Logger.ErrorContext(ctx, "object store is not configured")
		_ = apiError.EncodeError(w, apiError.BadRequest, "avatar uploads are not configured", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse multipart form", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "request too large", requestID)
		return
	}
	upload, err := form.FormFile(r, "image")
	if errors.Is(err, form.ErrNoFileUploaded) {
		env.Logger.ErrorContext(ctx, "no image file provided", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "no image file provided", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to open image upload", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}
	image, err := form.ReadImage(upload, maxAvatarSize)
	if errors.Is(err, form.ErrUnsupportedMimeType) {
		env.Logger.ErrorContext(ctx, "unsupported image type", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "unsupported image type", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to read image upload", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "uploading avatar", slog.Int64("size", image.Size))
	objectPath, err := env.FileStore.WriteAvatar(ctx, sess.UserID, image.Suffix, image.MimeType, image.Data)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to store avatar", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	imageURL := env.FileStore.ObjectURL(objectPath)

	err = env.Database.UpdateUserImage(ctx, database.UpdateUserImageParams{
		ID:    sess.UserID,
		Image: pgtype.Text{String: imageURL, Valid: true},
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to update user image", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeJSON(w, r, UploadAvatarResponse{Image: imageURL})
}

func writeJSON(w http.ResponseWriter, r *http.Request, body any) {
	ctx := r.Context()
	env := env.FromCtx(ctx)

	resp, err := json.Marshal(body)
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
