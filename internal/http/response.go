package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

// encodeJSON renders v as the body of a JSON response.
func encodeJSON(v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(body, '\n'), nil
}

func writeJSONBytes(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := encodeJSON(v)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSONBytes(w, status, body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	body, _ := encodeJSON(errorResponse{Error: message})
	writeJSONBytes(w, status, body)
}
