package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"oneshot-backend/internal/domains/contact/service"
	"oneshot-backend/internal/shared"
)

// SendContactHandler delivers queued contact form submissions.
type SendContactHandler struct {
	contactService service.ServiceInterface
}

func NewSendContactHandler(contactService service.ServiceInterface) *SendContactHandler {
	return &SendContactHandler{contactService: contactService}
}

func (h *SendContactHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ContactPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal SendContact payload")
		return fmt.Errorf("unmarshal payload: %w", asynq.SkipRetry)
	}

	log.Info().
		Str("from", payload.Email).
		Time("submitted_at", payload.SubmittedAt).
		Msg("Processing contact message")

	if err := h.contactService.Deliver(ctx, payload); err != nil {
		log.Error().Err(err).Str("from", payload.Email).Msg("Failed to deliver contact message")
		return fmt.Errorf("deliver contact message: %w", err)
	}

	return nil
}
