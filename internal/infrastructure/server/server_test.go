package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gdugdh24/transitia-backend/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestCORS_Preflight(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := CORS(&config.CORSConfig{AllowedOrigins: []string{"https://transitia.it"}}).Handler(next)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/listings", nil)
	req.Header.Set("Origin", "https://transitia.it")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://transitia.it", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/listings", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
