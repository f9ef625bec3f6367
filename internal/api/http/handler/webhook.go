package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/filedrive/filedrive-server/internal/logger"
	"github.com/filedrive/filedrive-server/internal/model"
)

// IngestService applies verified identity-event batches.
type IngestService interface {
	ProcessBatch(ctx context.Context, events []model.IdentityEvent) error
}

// BatchVerifier authenticates a raw event payload against its signature
// headers. *svix.Webhook satisfies it.
type BatchVerifier interface {
	Verify(payload []byte, headers http.Header) error
}

// Webhook receives signed identity-event batches from the external
// identity provider.
type Webhook struct {
	ingest   IngestService
	verifier BatchVerifier
	logger   *logger.Logger
}

// NewWebhook creates a new Webhook handler.
func NewWebhook(ingest IngestService, verifier BatchVerifier, logger *logger.Logger) *Webhook {
	return &Webhook{
		ingest:   ingest,
		verifier: verifier,
		logger:   logger,
	}
}

type eventBatch struct {
	Events []model.IdentityEvent `json:"events"`
}

// HandleIdentityEvents verifies the batch signature and applies the events.
// Any transport-level failure rejects the whole batch with 400 so the
// provider redelivers it.
func (h *Webhook) HandleIdentityEvents(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("failed to read webhook payload", "error", err)
		http.Error(w, "webhook error", http.StatusBadRequest)
		return
	}

	if err := h.verifier.Verify(payload, r.Header); err != nil {
		h.logger.Warn("webhook signature verification failed", "error", err)
		http.Error(w, "webhook error", http.StatusBadRequest)
		return
	}

	var batch eventBatch
	if err := json.Unmarshal(payload, &batch); err != nil {
		h.logger.Warn("failed to decode webhook payload", "error", err)
		http.Error(w, "webhook error", http.StatusBadRequest)
		return
	}

	if err := h.ingest.ProcessBatch(r.Context(), batch.Events); err != nil {
		h.logger.Error("failed to process identity event batch", "error", err)
		http.Error(w, "webhook error", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
}
