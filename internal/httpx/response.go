// Package httpx carries the JSON envelope shared by every handler:
// {"success":true, ...payload} on success, {"success":false,"message":...}
// on failure, with the HTTP status derived from the domain error kind.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/dcastellanos/gymcore-backend/internal/domain"
)

// M is a convenience shorthand for response payloads.
type M map[string]any

// OK writes a success envelope merging payload at the top level.
func OK(w http.ResponseWriter, status int, payload M) {
	body := M{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	write(w, status, body)
}

// Fail writes a failure envelope with a status reflecting the error kind.
func Fail(w http.ResponseWriter, err error) {
	write(w, StatusFor(err), M{"success": false, "message": err.Error()})
}

// FailStatus writes a failure envelope with an explicit status.
func FailStatus(w http.ResponseWriter, status int, message string) {
	write(w, status, M{"success": false, "message": message})
}

// StatusFor maps a domain error kind to its HTTP status. Untyped errors are
// treated as persistence failures.
func StatusFor(err error) int {
	kind, ok := domain.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case domain.KindValidation, domain.KindState, domain.KindReconciliation, domain.KindStock:
		return http.StatusBadRequest
	case domain.KindAuthorization:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func write(w http.ResponseWriter, status int, body M) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
