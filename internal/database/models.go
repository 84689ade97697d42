package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID               string
	Name             pgtype.Text
	Email            string
	EmailVerified    pgtype.Timestamptz
	Image            pgtype.Text
	APIKeyCiphertext pgtype.Text
	CreatedAt        pgtype.Timestamptz
	UpdatedAt        pgtype.Timestamptz
}

type Account struct {
	ID                string
	UserID            string
	Type              string
	Provider          string
	ProviderAccountID string
	AccessToken       pgtype.Text
	RefreshToken      pgtype.Text
	ExpiresAt         pgtype.Int8
	TokenType         pgtype.Text
	Scope             pgtype.Text
	IDToken           pgtype.Text
}

type Session struct {
	ID           string
	SessionToken string
	UserID       string
	Expires      pgtype.Timestamptz
}

type VerificationToken struct {
	Identifier string
	Token      string
	Expires    pgtype.Timestamptz
}

type UserRecipe struct {
	ID        int64
	UserID    string
	Title     string
	Content   []byte
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}
