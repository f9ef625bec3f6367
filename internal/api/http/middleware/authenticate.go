package middleware

import (
	"net/http"
	"strings"

	"github.com/filedrive/filedrive-server/internal/logger"
	"github.com/filedrive/filedrive-server/internal/model"
)

// Authenticate validates session bearer tokens and injects the principal's
// identity token into the request context. Requests without a valid token
// pass through unauthenticated; handlers decide whether that is fatal.
type Authenticate struct {
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenManager model.TokenManager, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenManager: tokenManager, contextManager: contextManager, logger: logger}
}

// Handler parses the Authorization header and, when the session token is
// valid, stores the subject in the request context.
func (m *Authenticate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		subject, err := m.tokenManager.ParseSessionToken(tokenString)
		if err != nil {
			m.logger.Debug("rejected session token", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := m.contextManager.SetPrincipalToContext(r.Context(), subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
