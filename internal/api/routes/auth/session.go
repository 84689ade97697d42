package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/colebaker/mise/internal/api/token"
	"github.com/colebaker/mise/internal/argon2id"
	"github.com/colebaker/mise/internal/database"
	"github.com/colebaker/mise/internal/env"
	mJwt "github.com/colebaker/mise/internal/jwt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oklog/ulid/v2"
)

// mJwtParams maps a user row onto access token claims.
func mJwtParams(user database.User) mJwt.JWTParams {
	return mJwt.JWTParams{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.Name.String,
	}
}

// openSession creates a session row for the user and sets both auth
// cookies. Only the argon2id hash of the cookie value is stored.
func openSession(ctx context.Context, w http.ResponseWriter, e *env.Env, user database.User) error {
	sessionID := ulid.Make().String()
	sessionToken, err := token.NewSessionToken(sessionID)
	if err != nil {
		return fmt.Errorf("creating session token: %w", err)
	}
	tokenHash, err := argon2id.EncodeHash(sessionToken, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("hashing session token: %w", err)
	}

	err = e.Database.CreateSession(ctx, database.CreateSessionParams{
		ID:           sessionID,
		SessionToken: tokenHash,
		UserID:       user.ID,
		Expires: pgtype.Timestamptz{
			Time:  time.Now().AddDate(0, 0, token.SessionLifetimeDays),
			Valid: true,
		},
	})
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	accessToken, err := token.NewAccessToken(mJwtParams(user), &e.Config)
	if err != nil {
		return fmt.Errorf("creating access token: %w", err)
	}

	http.SetCookie(w, token.NewAccessTokenCookie(accessToken, &e.Config))
	http.SetCookie(w, token.NewSessionTokenCookie(sessionToken, &e.Config))
	return nil
}
