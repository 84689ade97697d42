package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const checkUsersTableExists = `
SELECT EXISTS (
    SELECT FROM information_schema.tables
    WHERE table_schema = 'public' AND table_name = 'users'
)
`

func (q *Queries) CheckUsersTableExists(ctx context.Context) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, checkUsersTableExists).Scan(&exists)
	return exists, err
}

const getUserByEmail = `
SELECT id, name, email, email_verified, image, api_key_ciphertext, created_at, updated_at
FROM users
WHERE email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, getUserByEmail, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.EmailVerified, &u.Image,
		&u.APIKeyCiphertext, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getUserByID = `
SELECT id, name, email, email_verified, image, api_key_ciphertext, created_at, updated_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, getUserByID, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.EmailVerified, &u.Image,
		&u.APIKeyCiphertext, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const upsertUser = `
INSERT INTO users (id, name, email, email_verified, image)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (email) DO UPDATE SET
    name = COALESCE(EXCLUDED.name, users.name),
    image = COALESCE(EXCLUDED.image, users.image),
    email_verified = COALESCE(EXCLUDED.email_verified, users.email_verified),
    updated_at = now()
RETURNING id, name, email, email_verified, image, api_key_ciphertext, created_at, updated_at
`

type UpsertUserParams struct {
	ID            string
	Name          pgtype.Text
	Email         string
	EmailVerified pgtype.Timestamptz
	Image         pgtype.Text
}

// UpsertUser creates the user on first sign-in or refreshes the profile
// fields on subsequent sign-ins. The given id is only used for new rows.
func (q *Queries) UpsertUser(ctx context.Context, arg UpsertUserParams) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, upsertUser,
		arg.ID, arg.Name, arg.Email, arg.EmailVerified, arg.Image).Scan(
		&u.ID, &u.Name, &u.Email, &u.EmailVerified, &u.Image,
		&u.APIKeyCiphertext, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getUserAPIKeyCiphertext = `
SELECT api_key_ciphertext FROM users WHERE email = $1
`

func (q *Queries) GetUserAPIKeyCiphertext(ctx context.Context, email string) (pgtype.Text, error) {
	var ciphertext pgtype.Text
	err := q.db.QueryRow(ctx, getUserAPIKeyCiphertext, email).Scan(&ciphertext)
	return ciphertext, err
}

const setUserAPIKeyCiphertext = `
UPDATE users SET api_key_ciphertext = $2, updated_at = now() WHERE email = $1
`

type SetUserAPIKeyCiphertextParams struct {
	Email      string
	Ciphertext pgtype.Text
}

func (q *Queries) SetUserAPIKeyCiphertext(ctx context.Context, arg SetUserAPIKeyCiphertextParams) error {
	_, err := q.db.Exec(ctx, setUserAPIKeyCiphertext, arg.Email, arg.Ciphertext)
	return err
}

const updateUserImage = `
UPDATE users SET image = $2, updated_at = now() WHERE id = $1
`

type UpdateUserImageParams struct {
	ID    string
	Image pgtype.Text
}

func (q *Queries) UpdateUserImage(ctx context.Context, arg UpdateUserImageParams) error {
	_, err := q.db.Exec(ctx, updateUserImage, arg.ID, arg.Image)
	return err
}

const upsertAccount = `
INSERT INTO accounts (id, user_id, type, provider, provider_account_id,
    access_token, refresh_token, expires_at, token_type, scope, id_token)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (provider, provider_account_id) DO UPDATE SET
    access_token = EXCLUDED.access_token,
    refresh_token = COALESCE(EXCLUDED.refresh_token, accounts.refresh_token),
    expires_at = EXCLUDED.expires_at,
    scope = EXCLUDED.scope,
    id_token = EXCLUDED.id_token,
    updated_at = now()
`

type UpsertAccountParams struct {
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

func (q *Queries) UpsertAccount(ctx context.Context, arg UpsertAccountParams) error {
	_, err := q.db.Exec(ctx, upsertAccount,
		arg.ID, arg.UserID, arg.Type, arg.Provider, arg.ProviderAccountID,
		arg.AccessToken, arg.RefreshToken, arg.ExpiresAt, arg.TokenType,
		arg.Scope, arg.IDToken)
	return err
}

const createSession = `
INSERT INTO sessions (id, session_token, user_id, expires)
VALUES ($1, $2, $3, $4)
`

type CreateSessionParams struct {
	ID           string
	SessionToken string
	UserID       string
	Expires      pgtype.Timestamptz
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	_, err := q.db.Exec(ctx, createSession,
		arg.ID, arg.SessionToken, arg.UserID, arg.Expires)
	return err
}

const getSession = `
SELECT id, session_token, user_id, expires FROM sessions WHERE id = $1
`

func (q *Queries) GetSession(ctx context.Context, id string) (Session, error) {
	var s Session
	err := q.db.QueryRow(ctx, getSession, id).Scan(
		&s.ID, &s.SessionToken, &s.UserID, &s.Expires)
	return s, err
}

const updateSessionToken = `
UPDATE sessions SET session_token = $2, expires = $3, updated_at = now() WHERE id = $1
`

type UpdateSessionTokenParams struct {
	ID           string
	SessionToken string
	Expires      pgtype.Timestamptz
}

func (q *Queries) UpdateSessionToken(ctx context.Context, arg UpdateSessionTokenParams) error {
	_, err := q.db.Exec(ctx, updateSessionToken, arg.ID, arg.SessionToken, arg.Expires)
	return err
}

const deleteSession = `
DELETE FROM sessions WHERE id = $1
`

func (q *Queries) DeleteSession(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, deleteSession, id)
	return err
}

const createVerificationToken = `
INSERT INTO verification_tokens (identifier, token, expires)
VALUES ($1, $2, $3)
`

type CreateVerificationTokenParams struct {
	Identifier string
	Token      string
	Expires    pgtype.Timestamptz
}

func (q *Queries) CreateVerificationToken(ctx context.Context, arg CreateVerificationTokenParams) error {
	_, err := q.db.Exec(ctx, createVerificationToken, arg.Identifier, arg.Token, arg.Expires)
	return err
}

const consumeVerificationToken = `
DELETE FROM verification_tokens
WHERE identifier = $1 AND token = $2
RETURNING identifier, token, expires
`

type ConsumeVerificationTokenParams struct {
	Identifier string
	Token      string
}

// ConsumeVerificationToken deletes the token row and returns it, so a link
// can only be used once.
func (q *Queries) ConsumeVerificationToken(ctx context.Context, arg ConsumeVerificationTokenParams) (VerificationToken, error) {
	var vt VerificationToken
	err := q.db.QueryRow(ctx, consumeVerificationToken, arg.Identifier, arg.Token).Scan(
		&vt.Identifier, &vt.Token, &vt.Expires)
	return vt, err
}

const createUserRecipe = `
INSERT INTO user_recipes (user_id, title, content)
VALUES ($1, $2, $3)
RETURNING id, title
`

type CreateUserRecipeParams struct {
	UserID  string
	Title   string
	Content []byte
}

type CreateUserRecipeRow struct {
	ID    int64
	Title string
}

func (q *Queries) CreateUserRecipe(ctx context.Context, arg CreateUserRecipeParams) (CreateUserRecipeRow, error) {
	var row CreateUserRecipeRow
	err := q.db.QueryRow(ctx, createUserRecipe, arg.UserID, arg.Title, arg.Content).Scan(
		&row.ID, &row.Title)
	return row, err
}

const listUserRecipes = `
SELECT id, title FROM user_recipes WHERE user_id = $1 ORDER BY created_at DESC
`

type ListUserRecipesRow struct {
	ID    int64
	Title string
}

func (q *Queries) ListUserRecipes(ctx context.Context, userID string) ([]ListUserRecipesRow, error) {
	rows, err := q.db.Query(ctx, listUserRecipes, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListUserRecipesRow
	for rows.Next() {
		var row ListUserRecipesRow
		if err := rows.Scan(&row.ID, &row.Title); err != nil {
			return nil, err
		}
		items = append(items, row)
	}
	return items, rows.Err()
}

const getUserRecipe = `
SELECT id, user_id, title, content, created_at, updated_at
FROM user_recipes
WHERE id = $1
`

func (q *Queries) GetUserRecipe(ctx context.Context, id int64) (UserRecipe, error) {
	var r UserRecipe
	err := q.db.QueryRow(ctx, getUserRecipe, id).Scan(
		&r.ID, &r.UserID, &r.Title, &r.Content, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

const deleteUserRecipe = `
DELETE FROM user_recipes WHERE id = $1 AND user_id = $2
`

type DeleteUserRecipeParams struct {
	ID     int64
	UserID string
}

// DeleteUserRecipe removes the row only when the id and owner both match.
// The returned count is 0 when the row exists but belongs to someone else.
func (q *Queries) DeleteUserRecipe(ctx context.Context, arg DeleteUserRecipeParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteUserRecipe, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
