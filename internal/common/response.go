package common

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the error payload every endpoint returns, nested under an
// "error" key so clients can distinguish failures from data envelopes.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON encodes v to the response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError renders an ad-hoc error response.
func JSONError(w http.ResponseWriter, status int, code, message string, details any) {
	JSON(w, status, map[string]any{
		"error": ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// RenderError renders err through its AppError classification; causes
// without one come out as an opaque 500.
func RenderError(w http.ResponseWriter, err error) {
	appErr := AsAppError(err)
	JSONError(w, appErr.Status, appErr.Code, appErr.Message, nil)
}
