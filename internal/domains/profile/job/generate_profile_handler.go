package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"oneshot-backend/internal/domains/profile/service"
	"oneshot-backend/internal/shared"
	"oneshot-backend/internal/shared/apperror"
)

// GenerateProfileHandler renders a stored profile in the worker.
type GenerateProfileHandler struct {
	profileService service.ServiceInterface
}

func NewGenerateProfileHandler(profileService service.ServiceInterface) *GenerateProfileHandler {
	return &GenerateProfileHandler{profileService: profileService}
}

func (h *GenerateProfileHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.GenerateProfilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal GenerateProfile payload")
		return fmt.Errorf("unmarshal payload: %w", asynq.SkipRetry)
	}

	log.Info().
		Str("profile_id", payload.ProfileID).
		Time("requested_at", payload.RequestedAt).
		Msg("Generating profile page")

	result, err := h.profileService.RegenerateProfile(ctx, payload.ProfileID, payload.BaseURL, false)
	if err != nil {
		log.Error().Err(err).Str("profile_id", payload.ProfileID).Msg("Failed to generate profile page")

		// bad input will not get better on retry
		if apperror.IsKind(err, apperror.KindNotFound) || apperror.IsKind(err, apperror.KindValidation) {
			return fmt.Errorf("generate profile %s: %v: %w", payload.ProfileID, err, asynq.SkipRetry)
		}
		return fmt.Errorf("generate profile %s: %w", payload.ProfileID, err)
	}

	log.Info().
		Str("slug", result.Slug).
		Bool("degraded", result.Degraded).
		Msg("Profile page generated")

	return nil
}
