package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	svcerrors "github.com/cvitae/latexsvc/internal/errors"
	"github.com/cvitae/latexsvc/internal/logfields"
)

// errorResponse is the JSON error payload shape.
type errorResponse struct {
	Error    string                  `json:"error"`
	Code     svcerrors.ErrorCode     `json:"code,omitempty"`
	Category svcerrors.ErrorCategory `json:"category,omitempty"`
	Context  svcerrors.ContextFields `json:"context,omitempty"`
}

// healthResponse is the /health payload.
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// templateResponse is the /templates/jakes payload.
type templateResponse struct {
	Template    string `json:"template"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// recentJobsResponse is the /jobs/recent payload.
type recentJobsResponse struct {
	Jobs any `json:"jobs"`
}

// writeJSON serializes the provided value to JSON and writes it with the
// given status code. Encoding goes through an intermediate buffer so a
// serialization failure never sends a partial response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		slog.Error("Failed encoding JSON response", logfields.Error(err))
		http.Error(w, `{"error":"internal encoding failure"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Failed writing JSON response body", logfields.Error(err))
	}
}

// writeError maps a pipeline error to the JSON error shape and status code.
func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	var le *svcerrors.LatexError
	if errors.As(err, &le) {
		resp.Error = le.Message
		resp.Code = le.Code
		resp.Category = le.Category
		resp.Context = le.Context
	}
	writeJSON(w, svcerrors.HTTPStatus(err), resp)
}
