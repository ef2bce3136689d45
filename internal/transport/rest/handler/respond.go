package handler

import (
	"academyhub/internal/apierr"
	"academyhub/internal/logger"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
)

const maxBodyBytes = 1 << 20

// errorBody is the JSON shape of every error response
type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// writeAPIError maps service errors to responses. Internal errors are logged and hidden.
func writeAPIError(w http.ResponseWriter, log *logger.Logger, err error) {
	e := apierr.From(err)
	if e.Status >= http.StatusInternalServerError {
		log.Error("request failed", "code", e.Code, "error", err)
		writeJSON(w, e.Status, errorBody{Error: "something went wrong, please try again", Code: e.Code})
		return
	}
	writeJSON(w, e.Status, errorBody{Error: e.Error(), Code: e.Code, Fields: e.Fields})
}

// decodeJSON reads a bounded request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "request body is empty")
		default:
			writeError(w, http.StatusBadRequest, "invalid request body")
		}
		return false
	}
	return true
}

// queryInt reads a non-negative integer query parameter
func queryInt(r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
