package auth

type EmailSignInRequest struct {
	Email string `json:"email" validate:"required,email"`
}
