package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"oneshot-backend/internal/domains/upload/service"
)

// SweepBackupsHandler runs the scheduled cleanup of "-backup-" upload files.
type SweepBackupsHandler struct {
	uploadService service.ServiceInterface
}

func NewSweepBackupsHandler(uploadService service.ServiceInterface) *SweepBackupsHandler {
	return &SweepBackupsHandler{uploadService: uploadService}
}

func (h *SweepBackupsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	removed, err := h.uploadService.SweepBackups(ctx)
	if err != nil {
		return fmt.Errorf("sweep backups: %w", err)
	}

	log.Info().Int("removed", removed).Msg("Scheduled backup sweep completed")
	return nil
}
