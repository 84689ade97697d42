// Package middleware contains middleware functions for the API
package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apiError "github.com/colebaker/mise/internal/api/error"
	"github.com/colebaker/mise/internal/api/requestid"
	"github.com/colebaker/mise/internal/api/session"
	"github.com/colebaker/mise/internal/api/token"
	"github.com/colebaker/mise/internal/env"
	mJwt "github.com/colebaker/mise/internal/jwt"
	"github.com/colebaker/mise/internal/log"
	"github.com/go-chi/httplog/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/oklog/ulid/v2"
)

// InjectEnv injects an environment struct into the request context.
func InjectEnv(environment *env.Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(env.WithCtx(r.Context(), environment)))
		})
	}
}

func LogRequest(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		LogExtraAttrs: func(r *http.Request, reqBody string, respStatus int) []slog.Attr {
			requestID := requestid.ExtractRequestID(r.Context())
			if requestID != 0 {
				return []slog.Attr{slog.Uint64("log_id", requestID)}
			}
			return []slog.Attr{slog.String("log_id", "N/A")}
		},
	})
}

// AddRequestID adds a request ID to the request context.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := ulid.Now()
		r = r.WithContext(log.AppendCtx(r.Context(), slog.Uint64("log_id", requestID)))
		r = r.WithContext(requestid.InjectRequestID(r.Context(), requestID))
		next.ServeHTTP(w, r)
	})
}

// AddCors adds the necessary CORS headers to the response.
func AddCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := env.FromCtx(r.Context())
		origin := r.Header.Get("Origin")

		// In prod only the configured origin may call us. In dev,
		// reflect whatever origin showed up.
		allowedOrigin := e.Config.HostOrigin
		if !e.Config.IsProd() && origin != "" {
			allowedOrigin = origin
		}

		if allowedOrigin == "" {
			e.Logger.WarnContext(r.Context(),
				"host origin not configured and no origin header present; Access-Control-Allow-Origin will be empty")
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Authenticate validates the access token cookie and injects the caller's
// session into the request context.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := env.FromCtx(r.Context())
		requestID := fmt.Sprintf("%d", requestid.ExtractRequestID(r.Context()))

		accessToken, err := r.Cookie(token.AccessTokenName(&e.Config))
		if err != nil {
			e.Logger.ErrorContext(r.Context(), "unable to get access token", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.AuthRequired, "authentication required", requestID)
			return
		}

		secret := e.Config.Secret()
		if secret == "" {
			e.Logger.ErrorContext(r.Context(), "app secret not configured")
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		secretVersion := e.Config.AppSecret.Version
		if secretVersion == "" {
			secretVersion = mJwt.DefaultKID
		}

		accessJwt, err := mJwt.ValidateJWT(accessToken.Value, secretVersion, []byte(secret))
		if errors.Is(err, jwt.ErrTokenExpired) {
			e.Logger.ErrorContext(r.Context(), "access token expired", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.ExpiredAccessToken, "access token expired", requestID)
			return
		} else if err != nil {
			e.Logger.ErrorContext(r.Context(), "invalid access token", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
			return
		}

		sess, err := session.FromJWT(accessJwt)
		if err != nil {
			e.Logger.ErrorContext(r.Context(), "access token has invalid claims", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
			return
		}

		r = r.WithContext(log.AppendCtx(r.Context(), slog.String("user-id", sess.UserID)))
		r = r.WithContext(session.WithCtx(r.Context(), sess))
		next.ServeHTTP(w, r)
	})
}
