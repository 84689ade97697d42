// Package setup is responsible for setting up components.
package setup

import (
	"context"
	"fmt"

	"github.com/colebaker/mise/internal/config"
	"github.com/colebaker/mise/internal/database"
	"github.com/colebaker/mise/internal/email"
	"github.com/colebaker/mise/internal/filestore"
	"github.com/colebaker/mise/internal/vault"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Database(ctx context.Context, conf config.Config) (*database.Database, error) {
	if conf.Database.Host == "" {
		return nil, fmt.Errorf("database is not configured")
	}
	dbString := fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		conf.Database.User, conf.Database.Password,
		conf.Database.Host, conf.Database.Port, conf.Database.Database)

	pool, err := pgxpool.New(ctx, dbString)
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	db := database.NewDatabase(pool)
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return db, nil
}

// SMTP creates the sender for sign-in emails. Returns nil when the SMTP
// section is empty, which disables email sign-in.
func SMTP(conf config.Config) email.Sender {
	if conf.SMTP.Host == "" {
		return nil
	}
	return email.NewSMTPSender(email.Config{
		Host:     conf.SMTP.Host,
		Port:     int(conf.SMTP.Port),
		Username: conf.SMTP.Username,
		Password: conf.SMTP.Password,
		From:     conf.SMTP.From,
	})
}

// FileStore creates the avatar object store. Returns nil when the object
// store section is empty, which disables avatar uploads.
func FileStore(ctx context.Context, conf config.Config) (*filestore.FileStore, error) {
	if conf.ObjectStore.Endpoint == "" {
		return nil, nil
	}
	fs, err := filestore.New(filestore.Config{
		Endpoint:  conf.ObjectStore.Endpoint,
		AccessKey: conf.ObjectStore.AccessKey,
		SecretKey: conf.ObjectStore.SecretKey,
		Bucket:    conf.ObjectStore.Bucket,
		UseSSL:    conf.ObjectStore.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating file store: %w", err)
	}
	if err := fs.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensuring bucket: %w", err)
	}
	return fs, nil
}

// Vault derives the credential vault key from the app secret.
func Vault(conf config.Config) (*vault.Vault, error) {
	secret := conf.Secret()
	if secret == "" {
		return nil, fmt.Errorf("app secret is not configured")
	}
	v, err := vault.New(secret)
	if err != nil {
		return nil, fmt.Errorf("creating vault: %w", err)
	}
	return v, nil
}
