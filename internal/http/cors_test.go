package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateCORSMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		enabled bool
		origins string
		wantNil bool
	}{
		{"Disabled", false, "https://app.example.com", true},
		{"EnabledWithoutOrigins", true, "", true},
		{"EnabledWithBlankOrigins", true, " , ", true},
		{"EnabledWithOrigins", true, " https://app.example.com , https://admin.example.com ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			middleware := createCORSMiddleware(tt.enabled, tt.origins, logger)
			if tt.wantNil {
				assert.Nil(t, middleware)
				return
			}
			assert.NotNil(t, middleware)
		})
	}
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Nil(t, parseOrigins("  "))
	assert.Equal(t,
		[]string{"https://app.example.com", "https://admin.example.com"},
		parseOrigins(" https://app.example.com ,, https://admin.example.com "),
	)
}

func newCORSRouter(enabled bool) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := gin.New()
	if middleware := createCORSMiddleware(enabled, "https://app.example.com", logger); middleware != nil {
		router.Use(middleware)
	}
	router.POST("/v1/storage/get", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"value": nil})
	})
	return router
}

func TestCORSIntegration(t *testing.T) {
	t.Run("HeadersAddedWhenEnabled", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/storage/get", nil)
		req.Header.Set("Origin", "https://app.example.com")
		newCORSRouter(true).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("NoHeadersWhenDisabled", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/storage/get", nil)
		req.Header.Set("Origin", "https://app.example.com")
		newCORSRouter(false).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("PreflightHandled", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/v1/storage/get", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		newCORSRouter(true).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	})
}
