package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/colebaker/mise/internal/api/session"
	"github.com/colebaker/mise/internal/api/token"
	"github.com/colebaker/mise/internal/config"
	"github.com/colebaker/mise/internal/env"
	mJwt "github.com/colebaker/mise/internal/jwt"
	"github.com/colebaker/mise/internal/log"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	secret := config.AppSecretValue("test-secret-32-bytes-long-123456")
	return config.Config{
		AppSecret: config.AppSecret{
			Value:   &secret,
			Version: "1",
		},
		HostOrigin: "http://localhost:3000",
		Env:        config.EnvDev,
	}
}

func testEnv(t *testing.T) *env.Env {
	t.Helper()
	return &env.Env{
		Logger: log.NullLogger(),
		Config: testConfig(t),
	}
}

func TestAuthenticate(t *testing.T) {
	e := testEnv(t)

	accessToken, err := token.NewAccessToken(mJwt.JWTParams{
		UserID:      "user-123",
		Email:       "cole@example.com",
		DisplayName: "Cole",
	}, &e.Config)
	if err != nil {
		t.Fatalf("creating access token: %v", err)
	}

	tests := []struct {
		name         string
		setupRequest func(*http.Request)
		wantStatus   int
		wantSession  bool
	}{
		{
			name: "valid access token",
			setupRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{
					Name:  token.AccessTokenName(&e.Config),
					Value: accessToken,
				})
			},
			wantStatus:  http.StatusOK,
			wantSession: true,
		},
		{
			name:         "missing cookie",
			setupRequest: func(r *http.Request) {},
			wantStatus:   http.StatusUnauthorized,
		},
		{
			name: "garbage token",
			setupRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{
					Name:  token.AccessTokenName(&e.Config),
					Value: "not-a-jwt",
				})
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSession *session.Session
			handler := Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if s, err := session.FromCtx(r.Context()); err == nil {
					gotSession = &s
				}
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req = req.WithContext(env.WithCtx(req.Context(), e))
			tt.setupRequest(req)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantSession {
				if gotSession == nil {
					t.Fatal("expected session in context, got none")
				}
				if gotSession.UserID != "user-123" {
					t.Errorf("session user id = %q, want %q", gotSession.UserID, "user-123")
				}
				if gotSession.Email != "cole@example.com" {
					t.Errorf("session email = %q, want %q", gotSession.Email, "cole@example.com")
				}
			} else if gotSession != nil {
				t.Errorf("expected no session, got %+v", gotSession)
			}
		})
	}
}

func TestAddCors_Preflight(t *testing.T) {
	e := testEnv(t)

	handler := AddCors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run for preflight")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/recipes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req = req.WithContext(env.WithCtx(req.Context(), e))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	// Dev mode reflects the caller's origin.
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow-origin = %q, want %q", got, "http://localhost:5173")
	}
}

func TestAddCors_ProdOrigin(t *testing.T) {
	e := testEnv(t)
	e.Config.Env = config.EnvProd

	handler := AddCors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	req = req.WithContext(env.WithCtx(req.Context(), e))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != e.Config.HostOrigin {
		t.Errorf("allow-origin = %q, want %q", got, e.Config.HostOrigin)
	}
}
