// Package error defines the API error codes and their JSON encoding.
package error

import "net/http"

type ErrorCode string

const (
	UnknownError         ErrorCode = "unknown_error"
	InternalServerError  ErrorCode = "internal_server_error"
	BadRequest           ErrorCode = "bad_request"
	AuthRequired         ErrorCode = "authentication_required"
	InvalidAccessToken   ErrorCode = "invalid_access_token"
	ExpiredAccessToken   ErrorCode = "expired_access_token"
	InvalidSession       ErrorCode = "invalid_session"
	InvalidEmail         ErrorCode = "invalid_email"
	InvalidSignInLink    ErrorCode = "invalid_signin_link"
	MissingAPIKey        ErrorCode = "missing_api_key"
	InvalidURL           ErrorCode = "invalid_url"
	RecipeNotFound       ErrorCode = "recipe_not_found"
	RecipeNotOwned       ErrorCode = "recipe_not_owned"
	UserNotFound         ErrorCode = "user_not_found"
	UpstreamFailure      ErrorCode = "upstream_failure"
	UpstreamInvalidShape ErrorCode = "upstream_invalid_shape"
)

var errorCodeToStatusCode = map[ErrorCode]int{
	UnknownError:         0, // No error code - unknown
	InternalServerError:  http.StatusInternalServerError,
	BadRequest:           http.StatusBadRequest,
	AuthRequired:         http.StatusUnauthorized,
	InvalidAccessToken:   http.StatusUnauthorized,
	ExpiredAccessToken:   http.StatusUnauthorized,
	InvalidSession:       http.StatusUnauthorized,
	InvalidEmail:         http.StatusBadRequest,
	InvalidSignInLink:    http.StatusUnauthorized,
	MissingAPIKey:        http.StatusBadRequest,
	InvalidURL:           http.StatusBadRequest,
	RecipeNotFound:       http.StatusNotFound,
	RecipeNotOwned:       http.StatusForbidden,
	UserNotFound:         http.StatusNotFound,
	UpstreamFailure:      http.StatusInternalServerError,
	UpstreamInvalidShape: http.StatusInternalServerError,
}

func (ec ErrorCode) StatusCode() int {
	return errorCodeToStatusCode[ec]
}

func (ec ErrorCode) String() string {
	return string(ec)
}
