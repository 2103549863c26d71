package utils

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/awantoch/traccarproxy/constants"
)

// ErrorBody is the JSON shape of every error the proxy returns.
type ErrorBody struct {
	Error string `json:"error"`
}

// ErrorJSON renders msg as {"error": msg} without HTML escaping. Encoding a
// string field cannot fail.
func ErrorJSON(msg string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(ErrorBody{Error: msg})
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// WriteHTTPJSON writes an already-serialized JSON body with the given status.
// Statuses that cannot carry a body (1xx, 204, 304) are sent as 502 so the
// body still reaches the caller.
func WriteHTTPJSON(w http.ResponseWriter, code int, body string) {
	if !bodyAllowed(code) {
		Warn("status %d cannot carry a body, sending 502", code)
		code = http.StatusBadGateway
	}
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(code)
	if _, err := w.Write([]byte(body)); err != nil {
		Error(constants.LogWriteFailed, err)
	}
}

func bodyAllowed(code int) bool {
	switch {
	case code >= 100 && code < 200:
		return false
	case code == http.StatusNoContent, code == http.StatusNotModified:
		return false
	}
	return true
}
