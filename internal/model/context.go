package model

import "context"

// ContextManager moves the principal's identity token in and out of
// request contexts.
type ContextManager interface {
	SetPrincipalToContext(ctx context.Context, token string) context.Context
	GetPrincipalFromContext(ctx context.Context) (string, bool)
}

// TokenManager issues and validates session bearer tokens. The token
// subject is the principal's external identity token.
type TokenManager interface {
	GenerateSessionToken(subject string) (string, error)
	ParseSessionToken(tokenString string) (string, error)
}
