package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/colebaker/mise/internal/database"

	"github.com/jackc/pgx/v5"
)

// ErrNoAPIKey is returned when the user exists but has no stored key,
// or when the user is unknown.
var ErrNoAPIKey = errors.New("no api key stored")

// DecryptedAPIKey looks up the user's stored key ciphertext by email and
// decrypts it. One database read, no writes. The decrypt call is never
// attempted when no key is stored.
func (v *Vault) DecryptedAPIKey(ctx context.Context, db *database.Database, email string) (string, error) {
	ciphertext, err := db.GetUserAPIKeyCiphertext(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNoAPIKey
	} else if err != nil {
		return "", fmt.Errorf("looking up api key: %w", err)
	}
	if !ciphertext.Valid || ciphertext.String == "" {
		return "", ErrNoAPIKey
	}

	plaintext, err := v.Decrypt(ciphertext.String)
	if err != nil {
		return "", fmt.Errorf("decrypting api key: %w", err)
	}
	return plaintext, nil
}
