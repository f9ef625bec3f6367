package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filedrive/filedrive-server/internal/testutil"
	"github.com/filedrive/filedrive-server/internal/token"
)

func TestAuth_HandleSessionExchange(t *testing.T) {
	tokenManager := token.NewJWT("secret")

	exchange := func(t *testing.T, handler *Auth, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/auth/session", bytes.NewReader([]byte(body)))
		rec := httptest.NewRecorder()
		handler.HandleSessionExchange(rec, req)
		return rec
	}

	t.Run("verified assertion yields a usable session token", func(t *testing.T) {
		handler := NewAuth(tokenManager, &fakeVerifier{}, testutil.MakeNoopLogger())

		rec := exchange(t, handler, `{"token":"user_a"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp sessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.SessionToken)

		// the minted token passes the same manager the middleware uses
		subject, err := tokenManager.ParseSessionToken(resp.SessionToken)
		require.NoError(t, err)
		assert.Equal(t, "user_a", subject)
	})

	t.Run("bad signature rejected", func(t *testing.T) {
		handler := NewAuth(tokenManager, &fakeVerifier{err: errors.New("no matching signature")}, testutil.MakeNoopLogger())

		rec := exchange(t, handler, `{"token":"user_a"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed payload rejected", func(t *testing.T) {
		handler := NewAuth(tokenManager, &fakeVerifier{}, testutil.MakeNoopLogger())

		rec := exchange(t, handler, `{"token":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		handler := NewAuth(tokenManager, &fakeVerifier{}, testutil.MakeNoopLogger())

		rec := exchange(t, handler, `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
