package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"clothing-store/internal/model"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

// MessageResponse is the body of operations that only report success.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WriteErrorMessage writes {error: message} with the given status.
func WriteErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// NotFound is the JSON response for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteErrorMessage(w, http.StatusNotFound, "Not found")
}

// MethodNotAllowed is the JSON response for known routes hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteErrorMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// StatusFor maps a domain error code to its HTTP status.
func StatusFor(err error) int {
	var de *model.DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}

	switch de.Code {
	case model.ErrCodeValidation:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorWriter renders service errors. Internal detail is only exposed when
// exposeDetails is set, which is the case outside production.
type errorWriter struct {
	exposeDetails bool
	logger        zerolog.Logger
}

func (e errorWriter) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	resp := model.ErrorResponse{Error: "Internal server error"}

	var de *model.DomainError
	if errors.As(err, &de) {
		resp.Error = de.Message
		if e.exposeDetails && de.Err != nil {
			resp.Message = de.Err.Error()
		}
	} else if e.exposeDetails {
		resp.Message = err.Error()
	}

	event := e.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = e.logger.Error()
	}
	event.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("request failed")

	writeJSON(w, status, resp)
}

// decodeJSON reads a bounded JSON body into v. An empty body leaves v untouched
// so that field validation reports what is missing.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		return model.ErrInvalidRequestBody.Wrap(err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return model.ErrInvalidRequestBody.Wrap(err)
	}
	return nil
}
