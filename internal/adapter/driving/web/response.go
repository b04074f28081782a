package web

import (
	"encoding/json"
	"net/http"

	"github.com/domenectl/domenectl/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// errorResponse is the standard error response body. Kind carries the stable
// error classification so the frontend can branch without parsing messages.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps a classified error onto an HTTP status and writes it.
func writeDomainError(w http.ResponseWriter, err error) {
	kind := model.KindOf(err)
	status := http.StatusBadRequest
	switch kind {
	case model.KindCredentialsMissing, model.KindAuthRejected:
		status = http.StatusUnauthorized
	case model.KindRemoteUnavailable:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: string(kind)})
}
