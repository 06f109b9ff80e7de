// Package httpjson centralizes the JSON envelopes used by every handler:
// payload objects on success and {"error": "..."} on failure.
package httpjson

import (
	"encoding/json"
	"net/http"
)

type errorEnvelope struct {
	Error string `json:"error"`
}

type successEnvelope struct {
	Success bool `json:"success"`
}

// Write serializes v with the given status code. Encoding failures are
// swallowed: headers are already out by then and there is nothing to send.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError emits the error envelope with the given status code.
func WriteError(w http.ResponseWriter, status int, message string) {
	Write(w, status, errorEnvelope{Error: message})
}

// WriteSuccess emits {"success": true} with a 200 status.
func WriteSuccess(w http.ResponseWriter) {
	Write(w, http.StatusOK, successEnvelope{Success: true})
}

// DecodeBody parses the request body into dst, limiting its size so a
// misbehaving client cannot hold a connection open with an endless body.
func DecodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(dst)
}
