package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as an application/json response with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the gateway's uniform error body: {"detail": "..."}.
func Error(w http.ResponseWriter, code int, detail string) {
	JSON(w, code, map[string]string{"detail": detail})
}
