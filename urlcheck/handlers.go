package urlcheck

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// maxRequestBody bounds the /check request body. Candidate URLs are
// short; anything larger is not a URL.
const maxRequestBody = 4096

type CheckRequest struct {
	URL string `json:"url"`
}

// Routes mounts the engine's HTTP surface. Rate limiting and caching are
// the caller's concern; the engine's route only bounds the body size.
func Routes(v *Validator) chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", healthHandler)
	r.Post("/check", v.CheckHandler)
	r.Get("/check", v.CheckHandler)
	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// CheckHandler validates one candidate URL. An "unsafe" verdict is still
// a successful check and returns 200; 4xx is reserved for malformed
// requests. External-dependency failures degrade inside the result and
// never surface as an HTTP error.
func (v *Validator) CheckHandler(w http.ResponseWriter, r *http.Request) {
	candidate := r.URL.Query().Get("url")

	if candidate == "" && r.Body != nil {
		var req CheckRequest
		body := http.MaxBytesReader(w, r.Body, maxRequestBody)
		if err := json.NewDecoder(body).Decode(&req); err == nil {
			candidate = req.URL
		}
	}

	if candidate == "" {
		http.Error(w, "url required", http.StatusBadRequest)
		return
	}

	result := v.Validate(r.Context(), candidate)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("[check] failed to write response: %v", err)
	}
}
