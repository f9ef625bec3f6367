package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/filedrive/filedrive-server/internal/logger"
	"github.com/filedrive/filedrive-server/internal/model"
)

// TokenIssuer mints bearer session tokens for verified identities.
type TokenIssuer interface {
	GenerateSessionToken(subject string) (string, error)
}

// Auth exchanges provider-signed identity assertions for session tokens.
// The identity provider signs the assertion the same way it signs event
// batches, so the webhook signing secret authenticates both.
type Auth struct {
	tokens   TokenIssuer
	verifier BatchVerifier
	logger   *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(tokens TokenIssuer, verifier BatchVerifier, logger *logger.Logger) *Auth {
	return &Auth{
		tokens:   tokens,
		verifier: verifier,
		logger:   logger,
	}
}

type sessionRequest struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	SessionToken string `json:"session_token"`
}

// HandleSessionExchange verifies the assertion signature and mints the
// bearer token the authenticated API group expects.
func (h *Auth) HandleSessionExchange(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("failed to read session exchange payload", "error", err)
		writeError(w, &model.ValidationError{Field: "body", Reason: "unreadable payload"})
		return
	}

	if err := h.verifier.Verify(payload, r.Header); err != nil {
		h.logger.Warn("session assertion verification failed", "error", err)
		writeError(w, model.ErrUnauthenticated)
		return
	}

	var req sessionRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		writeError(w, &model.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	if req.Token == "" {
		writeError(w, &model.ValidationError{Field: "token", Reason: "must not be empty"})
		return
	}

	sessionToken, err := h.tokens.GenerateSessionToken(req.Token)
	if err != nil {
		h.logger.Error("failed to generate session token", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{SessionToken: sessionToken})
}
