package shared

import (
	"encoding/json"
	"net/http"

	derrors "regdesk/pkg/domain-errors"
)

// WriteJSON encodes payload with the given status. Encoding failures are
// ignored at this point; headers are already written.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError centralizes domain error translation to HTTP responses so every
// handler returns the same JSON error envelope.
func WriteError(w http.ResponseWriter, err error) {
	code := derrors.CodeOf(err)
	WriteJSON(w, derrors.ToHTTPStatus(code), map[string]string{
		"error": string(code),
	})
}
