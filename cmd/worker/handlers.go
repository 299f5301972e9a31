package main

import (
	"github.com/hibiken/asynq"

	contactJob "oneshot-backend/internal/domains/contact/job"
	profileJob "oneshot-backend/internal/domains/profile/job"
	uploadJob "oneshot-backend/internal/domains/upload/job"
	"oneshot-backend/internal/shared"
	"oneshot-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	generateProfile *profileJob.GenerateProfileHandler
	processPhoto    *uploadJob.ProcessPhotoHandler
	sweepBackups    *uploadJob.SweepBackupsHandler
	sendContact     *contactJob.SendContactHandler
}

// initializeHandlers creates all job handlers from the container services
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		generateProfile: profileJob.NewGenerateProfileHandler(c.ProfileService),
		processPhoto:    uploadJob.NewProcessPhotoHandler(c.UploadService),
		sweepBackups:    uploadJob.NewSweepBackupsHandler(c.UploadService),
		sendContact:     contactJob.NewSendContactHandler(c.ContactService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Profiles
	mux.HandleFunc(shared.TypeGenerateProfile, h.generateProfile.ProcessTask)

	// Uploads
	mux.HandleFunc(shared.TypeProcessPhoto, h.processPhoto.ProcessTask)
	mux.HandleFunc(shared.TypeSweepBackups, h.sweepBackups.ProcessTask)

	// Contact
	mux.HandleFunc(shared.TypeSendContact, h.sendContact.ProcessTask)
}
