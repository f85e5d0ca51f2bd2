// Package httpapi exposes the backtest engine over HTTP: POST /v1/backtests
// for a single run, POST /v1/sweeps for a parameter sweep behind bearer
// auth, and a websocket stream of sweep progress.
package httpapi

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body written on any non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON encodes v as the response body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}
