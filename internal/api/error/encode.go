package error

import (
	"encoding/json"
	"net/http"
)

// Error is the JSON body returned for any failed request.
type Error struct {
	Code    ErrorCode `json:"code"`
	Status  int       `json:"status"`
	Message string    `json:"message"`
	ErrorID string    `json:"error_id,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// EncodeError writes the error payload for the given code, with the
// status derived from the code's status mapping.
func EncodeError(w http.ResponseWriter, code ErrorCode, message, errorID string) error {
	body := Error{
		Code:    code,
		Status:  code.StatusCode(),
		Message: message,
		ErrorID: errorID,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.Status)
	return json.NewEncoder(w).Encode(body)
}

// EncodeInternalError writes a generic 500 payload. The server-side log
// carries the detail; the client only gets the error id to report.
func EncodeInternalError(w http.ResponseWriter, errorID string) error {
	return EncodeError(w, InternalServerError, "internal server error", errorID)
}
