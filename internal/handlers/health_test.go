package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubProbe struct {
	loaded bool
}

func (p *stubProbe) Loaded() bool { return p.loaded }

func TestHealth_Handler(t *testing.T) {
	handler := NewHealthHandler(&stubProbe{})
	router := setupTestRouter()
	router.GET("/health", handler.Health)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReady_Handler_BeforeAndAfterFirstLoad(t *testing.T) {
	probe := &stubProbe{loaded: false}
	handler := NewHealthHandler(probe)
	router := setupTestRouter()
	router.GET("/ready", handler.Ready)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ready", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	probe.loaded = true
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
