package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"prepwise/internal/models"
)

// HandleWebhook receives call-lifecycle deliveries from the voice provider.
// The provider retries on non-2xx, so expected rejections answer 200 with
// success:false; only genuine internal failures answer 500.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	// Webhook replies must never be served stale by intermediaries.
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")

	var event models.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.logger.Warn("Malformed webhook payload", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, models.WebhookResponse{
			Success: false, Error: "malformed payload",
		})
		return
	}
	if err := h.validate.Struct(&event); err != nil {
		h.logger.Warn("Invalid webhook payload", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, models.WebhookResponse{
			Success: false, Error: "invalid payload",
		})
		return
	}

	resp, err := h.service.HandleCallEvent(r.Context(), &event)
	if err != nil {
		h.internalError(w, err, "Webhook processing failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
