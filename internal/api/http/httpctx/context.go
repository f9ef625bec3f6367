package httpctx

import "context"

// principalKey is the context key holding the principal's identity token.
type contextKey string

const principalKey contextKey = "principal_token"

// Manager moves the principal's identity token in and out of request
// contexts.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetPrincipalToContext returns a context carrying the principal token.
func (m *Manager) SetPrincipalToContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, principalKey, token)
}

// GetPrincipalFromContext retrieves the principal token set by the
// authentication middleware.
func (m *Manager) GetPrincipalFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(principalKey).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
