package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filedrive/filedrive-server/internal/api/http/handler"
	"github.com/filedrive/filedrive-server/internal/api/http/httpctx"
	"github.com/filedrive/filedrive-server/internal/testutil"
	"github.com/filedrive/filedrive-server/internal/token"
)

func TestRouter_Register(t *testing.T) {
	t.Parallel()

	lg := testutil.MakeNoopLogger()
	contextManager := httpctx.NewManager()
	tokenManager := token.NewJWT("secret")

	r := New(
		handler.NewFiles(nil, contextManager, lg),
		handler.NewWebhook(nil, nil, lg),
		handler.NewAuth(tokenManager, nil, lg),
		handler.NewHealth(nil),
		tokenManager,
		contextManager,
		lg,
	)

	mux := r.Register()
	require.NotNil(t, mux)

	t.Run("health endpoint is reachable", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("metrics endpoint is reachable", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("api endpoints reject anonymous requests", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/files/upload-url", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
