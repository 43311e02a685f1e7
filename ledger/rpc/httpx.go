package rpc

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

func newRequestID() string { return "req_" + uuid.New().String() }

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeError(w http.ResponseWriter, status int, request_id, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"request_id": request_id,
		"error": map[string]interface{}{
			"code": code, "message": message,
		},
	})
}
