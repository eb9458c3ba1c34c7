package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gyscontrol/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	var visto string
	r.GET("/ping", func(c *gin.Context) {
		visto = c.GetString(middleware.RequestIDKey)
		c.Status(http.StatusOK)
	})
	return r, &visto
}

func TestRequestID_GeneraUUID(t *testing.T) {
	r, visto := setupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)

	// El id generado llega al contexto y se devuelve en el header.
	header := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, header)
	_, err := uuid.Parse(header)
	assert.NoError(t, err)
	assert.Equal(t, header, *visto)
}

func TestRequestID_RespetaHeaderEntrante(t *testing.T) {
	r, visto := setupRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "req-desde-proxy-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-desde-proxy-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-desde-proxy-123", *visto)
}

func TestRequestID_IdDistintoPorRequest(t *testing.T) {
	r, _ := setupRouter()

	ids := map[string]bool{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
		ids[w.Header().Get("X-Request-ID")] = true
	}
	assert.Len(t, ids, 3)
}
