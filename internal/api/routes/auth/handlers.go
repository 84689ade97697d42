// Package auth contains handlers for the auth endpoints
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	apiError "github.com/colebaker/mise/internal/api/error"
	"github.com/colebaker/mise/internal/api/requestid"
	"github.com/colebaker/mise/internal/api/token"
	"github.com/colebaker/mise/internal/argon2id"
	"github.com/colebaker/mise/internal/database"
	"github.com/colebaker/mise/internal/env"
	mJson "github.com/colebaker/mise/internal/json"
	"github.com/colebaker/mise/internal/oauth"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oklog/ulid/v2"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 600 // 10 minutes

	googleCallbackPath = "/api/auth/google/callback"
)

func googleClient(e *env.Env) *oauth.Google {
	return oauth.NewGoogle(e.Config.Google.ClientID, e.Config.Google.ClientSecret,
		e.Config.HostOrigin+googleCallbackPath)
}

// HandleGoogleRedirect godoc
//
//	@Summary	Begin the Google OAuth sign-in flow.
//	@Tags		Auth
//	@Success	307	"Redirect to the Google consent page"
//	@Failure	400	{object}	apiError.Error	"Google sign-in not configured"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/auth/google [get]
func HandleGoogleRedirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	if env.Config.Google.ClientID == "" {
		env.Logger.ErrorContext(ctx, "google sign-in is not configured")
		_ = apiError.EncodeError(w, apiError.BadRequest, "google sign-in is not configured", requestID)
		return
	}

	state, err := oauth.NewState()
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create oauth state", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   oauthStateMaxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   env.Config.IsProd(),
	})

	http.Redirect(w, r, googleClient(env).AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// HandleGoogleCallback godoc
//
//	@Summary		Complete the Google OAuth sign-in flow.
//	@Description	Verifies the state cookie, exchanges the code, upserts the
//	@Description	user and linked account, and opens a session.
//	@Tags			Auth
//	@Success		307	"Redirect to the application"
//	@Failure		400	{object}	apiError.Error	"State mismatch or missing code"
//	@Failure		500	{object}	apiError.Error	"Internal server error"
//	@Router			/api/auth/google/callback [get]
func HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil {
		env.Logger.ErrorContext(ctx, "missing oauth state cookie", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "state mismatch", requestID)
		return
	}
	if err := oauth.VerifyState(stateCookie.Value, r.URL.Query().Get("state")); err != nil {
		env.Logger.ErrorContext(ctx, "oauth state mismatch", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "state mismatch", requestID)
		return
	}
	http.SetCookie(w, token.ExpiredCookie(oauthStateCookie, &env.Config))

	code := r.URL.Query().Get("code")
	if code == "" {
		_ = apiError.EncodeError(w, apiError.BadRequest, "missing code", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "exchanging oauth code")
	profile, oauthToken, err := googleClient(env).Exchange(ctx, code)
	if err != nil {
		env.Logger.ErrorContext(ctx, "oauth exchange failed", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UpstreamFailure, "sign-in with Google failed", requestID)
		return
	}

	user, err := env.Database.UpsertUser(ctx, database.UpsertUserParams{
		ID:            ulid.Make().String(),
		Name:          pgtype.Text{String: profile.Name, Valid: profile.Name != ""},
		Email:         profile.Email,
		EmailVerified: pgtype.Timestamptz{Time: time.Now(), Valid: true},
		Image:         pgtype.Text{String: profile.Picture, Valid: profile.Picture != ""},
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to upsert user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	idToken, _ := oauthToken.Extra("id_token").(string)
	err = env.Database.UpsertAccount(ctx, database.UpsertAccountParams{
		ID:                ulid.Make().String(),
		UserID:            user.ID,
		Type:              "oauth",
		Provider:          "google",
		ProviderAccountID: profile.ID,
		AccessToken:       pgtype.Text{String: oauthToken.AccessToken, Valid: oauthToken.AccessToken != ""},
		RefreshToken:      pgtype.Text{String: oauthToken.RefreshToken, Valid: oauthToken.RefreshToken != ""},
		ExpiresAt:         pgtype.Int8{Int64: oauthToken.Expiry.Unix(), Valid: !oauthToken.Expiry.IsZero()},
		TokenType:         pgtype.Text{String: oauthToken.TokenType, Valid: oauthToken.TokenType != ""},
		IDToken:           pgtype.Text{String: idToken, Valid: idToken != ""},
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to upsert account", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := openSession(ctx, w, env, user); err != nil {
		env.Logger.ErrorContext(ctx, "failed to open session", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	http.Redirect(w, r, env.Config.HostOrigin, http.StatusTemporaryRedirect)
}

// HandleEmailSignIn godoc
//
//	@Summary		Request a sign-in link by email.
//	@Description	Stores a one-time verification token and emails a link
//	@Description	valid for 15 minutes.
//	@Tags			Auth
//	@Accept			json
//	@Success		204	"Email sent"
//	@Failure		400	{object}	apiError.Error	"Invalid email"
//	@Failure		500	{object}	apiError.Error	"Internal server error"
//	@Router			/api/auth/email [post]
func HandleEmailSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	var request EmailSignInRequest
	if err := mJson.DecodeJSON(&request, json.NewDecoder(r.Body)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "bad request", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "invalid email", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidEmail, "a valid email is required", requestID)
		return
	}

	if env.SMTP == nil {
		env.Logger.ErrorContext(ctx, "email sign-in is not configured")
		_ = apiError.EncodeError(w, apiError.BadRequest, "email sign-in is not configured", requestID)
		return
	}

	verificationToken := uuid.NewString()
	err := env.Database.CreateVerificationToken(ctx, database.CreateVerificationTokenParams{
		Identifier: request.Email,
		Token:      verificationToken,
		Expires: pgtype.Timestamptz{
			Time:  time.Now().Add(verificationExpiry),
			Valid: true,
		},
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to store verification token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	link := signInLink(env.Config.HostOrigin, request.Email, verificationToken)
	env.Logger.DebugContext(ctx, "sending sign-in email")
	if err := env.SMTP.Send([]string{request.Email}, signInSubject, signInEmailBody(link)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to send sign-in email", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleEmailVerify godoc
//
//	@Summary		Complete the email sign-in flow.
//	@Description	Consumes the one-time token, upserts the user, and opens a
//	@Description	session. A token can only be used once.
//	@Tags			Auth
//	@Success		307	"Redirect to the application"
//	@Failure		401	{object}	apiError.Error	"Invalid or expired sign-in link"
//	@Failure		500	{object}	apiError.Error	"Internal server error"
//	@Router			/api/auth/email/verify [get]
func HandleEmailVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	email := r.URL.Query().Get("email")
	verificationToken := r.URL.Query().Get("token")
	if email == "" || verificationToken == "" {
		_ = apiError.EncodeError(w, apiError.InvalidSignInLink, "invalid sign-in link", requestID)
		return
	}

	// Delete-returning, so a second click on the same link fails.
	vt, err := env.Database.ConsumeVerificationToken(ctx, database.ConsumeVerificationTokenParams{
		Identifier: email,
		Token:      verificationToken,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "verification token not found")
		_ = apiError.EncodeError(w, apiError.InvalidSignInLink, "invalid sign-in link", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to consume verification token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if time.Now().After(vt.Expires.Time) {
		env.Logger.ErrorContext(ctx, "verification token expired")
		_ = apiError.EncodeError(w, apiError.InvalidSignInLink, "sign-in link expired", requestID)
		return
	}

	user, err := env.Database.UpsertUser(ctx, database.UpsertUserParams{
		ID:            ulid.Make().String(),
		Email:         email,
		EmailVerified: pgtype.Timestamptz{Time: time.Now(), Valid: true},
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to upsert user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := openSession(ctx, w, env, user); err != nil {
		env.Logger.ErrorContext(ctx, "failed to open session", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	http.Redirect(w, r, env.Config.HostOrigin, http.StatusTemporaryRedirect)
}

// HandleRefresh godoc
//
//	@Summary		Rotate the session and access tokens.
//	@Description	Validates the session cookie against the stored hash and
//	@Description	expiry, then issues fresh cookies.
//	@Tags			Auth
//	@Success		204	"Tokens rotated"
//	@Failure		401	{object}	apiError.Error	"Invalid or expired session"
//	@Failure		500	{object}	apiError.Error	"Internal server error"
//	@Router			/api/auth/refresh [post]
func HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	cookie, err := r.Cookie(token.SessionTokenName(&env.Config))
	if err != nil {
		env.Logger.ErrorContext(ctx, "no session cookie", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidSession, "invalid session", requestID)
		return
	}
	sessionID, err := token.SplitSessionToken(cookie.Value)
	if err != nil {
		env.Logger.ErrorContext(ctx, "malformed session token", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidSession, "invalid session", requestID)
		return
	}

	stored, err := env.Database.GetSession(ctx, sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "session not found")
		_ = apiError.EncodeError(w, apiError.InvalidSession, "invalid session", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to fetch session", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	argonParams, argonSalt, trueHash, err := argon2id.DecodeHash(stored.SessionToken)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode session token hash", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	givenHash := argon2id.HashWithSalt(cookie.Value, *argonParams, argonSalt)
	if subtle.ConstantTimeCompare(trueHash, givenHash) == 0 {
		env.Logger.ErrorContext(ctx, "session token does not match")
		_ = apiError.EncodeError(w, apiError.InvalidSession, "invalid session", requestID)
		return
	}
	if time.Now().After(stored.Expires.Time) {
		env.Logger.ErrorContext(ctx, "session expired")
		_ = apiError.EncodeError(w, apiError.InvalidSession, "session expired", requestID)
		return
	}

	// Rotate the cookie value in place, the row id stays stable.
	newSessionToken, err := token.NewSessionToken(sessionID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create session token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	newHash, err := argon2id.EncodeHash(newSessionToken, argon2id.DefaultParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to hash session token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	err = env.Database.UpdateSessionToken(ctx, database.UpdateSessionTokenParams{
		ID:           sessionID,
		SessionToken: newHash,
		Expires: pgtype.Timestamptz{
			Time:  time.Now().AddDate(0, 0, token.SessionLifetimeDays),
			Valid: true,
		},
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to update session token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	user, err := env.Database.GetUserByID(ctx, stored.UserID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to fetch user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	accessToken, err := token.NewAccessToken(mJwtParams(user), &env.Config)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create access token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	http.SetCookie(w, token.NewAccessTokenCookie(accessToken, &env.Config))
	http.SetCookie(w, token.NewSessionTokenCookie(newSessionToken, &env.Config))
	w.WriteHeader(http.StatusNoContent)
}

// HandleLogout godoc
//
//	@Summary	Close the session and clear cookies.
//	@Tags		Auth
//	@Success	204	"Logged out"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/auth/logout [post]
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.FromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	// Logout succeeds even without a valid cookie, the client still
	// forgets its tokens.
	if cookie, err := r.Cookie(token.SessionTokenName(&env.Config)); err == nil {
		if sessionID, err := token.SplitSessionToken(cookie.Value); err == nil {
			if err := env.Database.DeleteSession(ctx, sessionID); err != nil {
				env.Logger.ErrorContext(ctx, "failed to delete session", slog.Any("error", err))
				_ = apiError.EncodeInternalError(w, requestID)
				return
			}
		}
	}

	http.SetCookie(w, token.ExpiredCookie(token.AccessTokenName(&env.Config), &env.Config))
	http.SetCookie(w, token.ExpiredCookie(token.SessionTokenName(&env.Config), &env.Config))
	w.WriteHeader(http.StatusNoContent)
}

// HandleVerifySession godoc
//
//	@Summary		Verify the caller's session.
//	@Description	Returns 204 when the access token cookie is valid.
//	@Tags			Auth
//	@Success		204	"Session is valid"
//	@Failure		401	{object}	apiError.Error	"Expired or invalid access token"
//	@Security		AccessTokenCookie
//	@Router			/api/auth/session [get]
func HandleVerifySession(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
