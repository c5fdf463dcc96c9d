// Package httpjson holds the small request/response helpers shared by the
// HTTP handlers.
package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20

// Decode reads a JSON request body into dst, rejecting unknown fields and
// oversized payloads.
func Decode(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// Write sends a JSON response with the given status.
func Write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError sends the flat error envelope used by the auth endpoints.
func WriteError(w http.ResponseWriter, status int, message string) {
	Write(w, status, map[string]string{"error": message})
}

// ProblemDetails is an RFC 7807 style error payload used by the domain
// endpoints.
type ProblemDetails struct {
	Type   *string              `json:"type,omitempty"`
	Title  string               `json:"title"`
	Status int                  `json:"status"`
	Detail *string              `json:"detail,omitempty"`
	Errors *map[string][]string `json:"errors,omitempty"`
}

// WriteProblem sends a problem+json response.
func WriteProblem(w http.ResponseWriter, problem ProblemDetails) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	_ = json.NewEncoder(w).Encode(problem)
}

// Problem type URLs for the responses every authenticated endpoint shares.
// Domain-specific problems (not-found, conflict) stay with their handlers.
const (
	problemTypeUnauthorized = "https://rlst8.app/problems/unauthorized"
	problemTypeForbidden    = "https://rlst8.app/problems/forbidden"
	problemTypeInternal     = "https://rlst8.app/problems/internal-error"
)

// WriteUnauthorized sends the shared 401 problem.
func WriteUnauthorized(w http.ResponseWriter, detail string) {
	problemType := problemTypeUnauthorized
	WriteProblem(w, ProblemDetails{
		Type:   &problemType,
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
		Detail: &detail,
	})
}

// WriteForbidden sends the shared 403 problem.
func WriteForbidden(w http.ResponseWriter, detail string) {
	problemType := problemTypeForbidden
	WriteProblem(w, ProblemDetails{
		Type:   &problemType,
		Title:  "Forbidden",
		Status: http.StatusForbidden,
		Detail: &detail,
	})
}

// WriteInternal sends the shared 500 problem.
func WriteInternal(w http.ResponseWriter) {
	problemType := problemTypeInternal
	detail := "an unexpected error occurred"
	WriteProblem(w, ProblemDetails{
		Type:   &problemType,
		Title:  "Internal server error",
		Status: http.StatusInternalServerError,
		Detail: &detail,
	})
}
