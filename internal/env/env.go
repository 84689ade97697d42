// Package env provides a structure for managing application-wide dependencies.
package env

import (
	"context"
	"log/slog"

	"github.com/colebaker/mise/internal/config"
	"github.com/colebaker/mise/internal/database"
	"github.com/colebaker/mise/internal/email"
	"github.com/colebaker/mise/internal/filestore"
	mHttp "github.com/colebaker/mise/internal/http"
	"github.com/colebaker/mise/internal/log"
	"github.com/colebaker/mise/internal/vault"
)

type Env struct {
	Logger    *slog.Logger
	Database  *database.Database
	HTTP      *mHttp.HTTP
	SMTP      email.Sender
	FileStore *filestore.FileStore
	Vault     *vault.Vault
	Config    config.Config
}

type envKeyType struct{}

var envKey envKeyType

// WithCtx injects the environment into a context.
func WithCtx(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey, env)
}

// FromCtx extracts the environment from a context. A null environment is
// returned when none was injected, so callers can always log.
func FromCtx(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey).(*Env); ok {
		return env
	}
	return Null()
}

func Null() *Env {
	return &Env{
		Logger: log.NullLogger(),
	}
}
