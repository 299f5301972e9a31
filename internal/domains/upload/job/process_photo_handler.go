package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"oneshot-backend/internal/domains/upload/model"
	"oneshot-backend/internal/domains/upload/service"
	"oneshot-backend/internal/shared"
	"oneshot-backend/internal/shared/apperror"
)

// ProcessPhotoHandler builds derivatives for photos stored by an async upload.
type ProcessPhotoHandler struct {
	uploadService service.ServiceInterface
}

func NewProcessPhotoHandler(uploadService service.ServiceInterface) *ProcessPhotoHandler {
	return &ProcessPhotoHandler{uploadService: uploadService}
}

func (h *ProcessPhotoHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ProcessPhotoPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ProcessPhoto payload")
		return fmt.Errorf("unmarshal payload: %w", asynq.SkipRetry)
	}

	processed, err := h.uploadService.ProcessPhoto(ctx, payload.Slug, payload.SourcePath)
	if errors.Is(err, model.ErrPhotoSuperseded) {
		log.Info().Str("slug", payload.Slug).Str("source", payload.SourcePath).Msg("Photo superseded, nothing to do")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Str("slug", payload.Slug).Str("source", payload.SourcePath).Msg("Failed to process photo")

		// a missing or undecodable source stays broken
		if apperror.IsKind(err, apperror.KindValidation) ||
			apperror.IsKind(err, apperror.KindIO) ||
			apperror.IsKind(err, apperror.KindEncoding) {
			return fmt.Errorf("process photo %s: %v: %w", payload.Slug, err, asynq.SkipRetry)
		}
		return fmt.Errorf("process photo %s: %w", payload.Slug, err)
	}

	log.Info().
		Str("slug", payload.Slug).
		Bool("mobile", processed.Mobile != "").
		Bool("desktop", processed.Desktop != "").
		Msg("Photo derivatives ready")

	return nil
}
