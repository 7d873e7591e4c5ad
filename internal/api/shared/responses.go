package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Envelope is the uniform response body for every operation:
// a short status message and the payload (null on errors and deletes).
type Envelope struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Standard envelope messages.
const (
	MessageOK          = "OK"
	MessageCreated     = "Created"
	MessageNoContent   = "No Content"
	MessageNotFound    = "Not Found"
	MessageBadRequest  = "Bad Request"
	MessageServerError = "Server Error"
)

// RespondWithData writes an enveloped JSON response with the given status
// code, message and payload.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Envelope{Message: message, Data: data}); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondNoContent writes a bare 204. The status forbids a body, so the
// envelope's "No Content" message exists only conceptually here.
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondWithError writes an enveloped error response with a null payload
// and logs the underlying error (which is never exposed to the client).
//
// Log level strategy: 5xx at ERROR, 4xx at DEBUG — client mistakes are not
// operational problems.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	traceID := GetTraceID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", err.Error()),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithData(w, r, status, message, nil)
}
