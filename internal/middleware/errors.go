package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError renders the {code, message} error body. Middleware must not
// import the handler package.
func writeError(w http.ResponseWriter, status int, code, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
