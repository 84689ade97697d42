package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apiError "github.com/colebaker/mise/internal/api/error"
	"github.com/colebaker/mise/internal/api/session"
	"github.com/colebaker/mise/internal/database"
	"github.com/colebaker/mise/internal/env"
	mHttp "github.com/colebaker/mise/internal/http"
	"github.com/colebaker/mise/internal/log"
	"github.com/colebaker/mise/internal/vault"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

func testEnv(t *testing.T) *env.Env {
	t.Helper()
	client := mHttp.DefaultConfig()
	client.RetryMax = 0
	client.Logger = nil
	return &env.Env{
		Logger: log.NullLogger(),
		HTTP:   mHttp.New(client),
	}
}

func TestHandleFetchRecipeURL(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Best Bread</title>` +
			`<style>p{color:red}</style></head>` +
			`<body><script>alert(1)</script><p>Mix flour   and water.</p></body></html>`))
	}))
	defer page.Close()

	body := strings.NewReader(`{"url":` + jsonQuote(page.URL) + `}`)
	req := httptest.NewRequest(http.MethodPost, "/api/fetch-recipe-url", body)
	req = req.WithContext(env.WithCtx(req.Context(), testEnv(t)))
	rec := httptest.NewRecorder()

	HandleFetchRecipeURL(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp FetchRecipeURLResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Title != "Best Bread" {
		t.Errorf("title = %q, want %q", resp.Title, "Best Bread")
	}
	if !strings.Contains(resp.Content, "Mix flour and water.") {
		t.Errorf("content = %q, want it to contain the page text", resp.Content)
	}
	if strings.Contains(resp.Content, "alert") {
		t.Errorf("content = %q, script body should be stripped", resp.Content)
	}
}

func TestHandleFetchRecipeURL_InvalidURL(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing url", `{}`},
		{"relative url", `{"url":"/recipes/1"}`},
		{"unsupported scheme", `{"url":"ftp://example.com/a"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/fetch-recipe-url", strings.NewReader(tt.body))
			req = req.WithContext(env.WithCtx(req.Context(), testEnv(t)))
			rec := httptest.NewRecorder()

			HandleFetchRecipeURL(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

// jsonQuote quotes a string as a JSON value.
func jsonQuote(s string) string {
	quoted, _ := json.Marshal(s)
	return string(quoted)
}

// stubDB implements database.DBTX so handlers can run without Postgres.
type stubDB struct {
	execTag  pgconn.CommandTag
	execErr  error
	execArgs []any
	rowScan  func(dest ...any) error
}

func (db *stubDB) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	db.execArgs = args
	return db.execTag, db.execErr
}

func (db *stubDB) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query")
}

func (db *stubDB) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return stubRow{scan: db.rowScan}
}

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	return r.scan(dest...)
}

func sessionRequest(req *http.Request, e *env.Env, sess session.Session) *http.Request {
	ctx := env.WithCtx(req.Context(), e)
	ctx = session.WithCtx(ctx, sess)
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, body []byte) apiError.Error {
	t.Helper()
	var resp apiError.Error
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decoding error payload: %v, body: %s", err, body)
	}
	return resp
}

func TestHandleDeleteRecipe_NotOwner(t *testing.T) {
	db := &stubDB{
		// The delete matches id and owner; a row owned by someone else
		// leaves the count at zero.
		execTag: pgconn.NewCommandTag("DELETE 0"),
		rowScan: func(dest ...any) error {
			*(dest[0].(*int64)) = 7
			*(dest[1].(*string)) = "owner-user"
			*(dest[2].(*string)) = "Bread"
			*(dest[3].(*[]byte)) = []byte(`{"name":"Bread"}`)
			return nil
		},
	}
	e := testEnv(t)
	e.Database = &database.Database{Queries: database.New(db)}

	req := httptest.NewRequest(http.MethodDelete, "/api/recipes/7", nil)
	req = sessionRequest(req, e, session.Session{UserID: "other-user", Email: "other@example.com"})
	rec := httptest.NewRecorder()

	router := chi.NewRouter()
	router.Delete("/api/recipes/{id}", HandleDeleteRecipe)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusForbidden, rec.Body.String())
	}
	if resp := decodeError(t, rec.Body.Bytes()); resp.Code != apiError.RecipeNotOwned {
		t.Errorf("code = %q, want %q", resp.Code, apiError.RecipeNotOwned)
	}
	if len(db.execArgs) != 2 || db.execArgs[1] != "other-user" {
		t.Errorf("delete args = %v, want the caller's user id as the owner match", db.execArgs)
	}
}

func TestHandleDeleteRecipe_NotFound(t *testing.T) {
	db := &stubDB{
		execTag: pgconn.NewCommandTag("DELETE 0"),
		rowScan: func(dest ...any) error {
			return pgx.ErrNoRows
		},
	}
	e := testEnv(t)
	e.Database = &database.Database{Queries: database.New(db)}

	req := httptest.NewRequest(http.MethodDelete, "/api/recipes/99", nil)
	req = sessionRequest(req, e, session.Session{UserID: "user-1", Email: "user@example.com"})
	rec := httptest.NewRecorder()

	router := chi.NewRouter()
	router.Delete("/api/recipes/{id}", HandleDeleteRecipe)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusNotFound, rec.Body.String())
	}
	if resp := decodeError(t, rec.Body.Bytes()); resp.Code != apiError.RecipeNotFound {
		t.Errorf("code = %q, want %q", resp.Code, apiError.RecipeNotFound)
	}
}

func TestHandleRefineRecipe_ModelReplyNotJSON(t *testing.T) {
	completions := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Sure! Here is your recipe."}}]}`))
	}))
	defer completions.Close()

	v, err := vault.New("refine-test-secret")
	if err != nil {
		t.Fatalf("creating vault: %v", err)
	}
	ciphertext, err := v.Encrypt("sk-test")
	if err != nil {
		t.Fatalf("encrypting api key: %v", err)
	}
	db := &stubDB{
		rowScan: func(dest ...any) error {
			*(dest[0].(*pgtype.Text)) = pgtype.Text{String: ciphertext, Valid: true}
			return nil
		},
	}
	e := testEnv(t)
	e.Database = &database.Database{Queries: database.New(db)}
	e.Vault = v
	e.Config.OpenAI.BaseURL = completions.URL

	body := strings.NewReader(`{"rawRecipe":"mix flour and water","model":"gpt-4"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/refine-recipe", body)
	req = sessionRequest(req, e, session.Session{UserID: "user-1", Email: "user@example.com"})
	rec := httptest.NewRecorder()

	HandleRefineRecipe(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusInternalServerError, rec.Body.String())
	}
	if resp := decodeError(t, rec.Body.Bytes()); resp.Code != apiError.UpstreamInvalidShape {
		t.Errorf("code = %q, want %q", resp.Code, apiError.UpstreamInvalidShape)
	}
}

func TestHandleRefineRecipe_NoStoredKey(t *testing.T) {
	v, err := vault.New("refine-test-secret")
	if err != nil {
		t.Fatalf("creating vault: %v", err)
	}
	db := &stubDB{
		rowScan: func(dest ...any) error {
			return pgx.ErrNoRows
		},
	}
	e := testEnv(t)
	e.Database = &database.Database{Queries: database.New(db)}
	e.Vault = v

	body := strings.NewReader(`{"rawRecipe":"mix flour and water","model":"gpt-4"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/refine-recipe", body)
	req = sessionRequest(req, e, session.Session{UserID: "user-1", Email: "user@example.com"})
	rec := httptest.NewRecorder()

	HandleRefineRecipe(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
	if resp := decodeError(t, rec.Body.Bytes()); resp.Code != apiError.MissingAPIKey {
		t.Errorf("code = %q, want %q", resp.Code, apiError.MissingAPIKey)
	}
}
