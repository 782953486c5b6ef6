package httputil

import (
	"encoding/json"
	"net/http"
)

// MakeJSONResponse writes a JSON response with the given status code on a
// plain http.ResponseWriter. Used by the non-gin health server.
func MakeJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}
