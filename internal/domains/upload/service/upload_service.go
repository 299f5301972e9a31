package service

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	profileModel "oneshot-backend/internal/domains/profile/model"
	"oneshot-backend/internal/domains/profile/repository"
	"oneshot-backend/internal/domains/upload/model"
	"oneshot-backend/internal/infrastructure/queue"
	"oneshot-backend/internal/infrastructure/storage"
	"oneshot-backend/internal/shared"
	"oneshot-backend/internal/shared/apperror"
	"oneshot-backend/internal/shared/utils"
	"oneshot-backend/pkg/keylock"
	"oneshot-backend/pkg/metrics"

	"github.com/rs/zerolog/log"
)

type ServiceInterface interface {
	Upload(ctx context.Context, slug string, files []model.IncomingFile) (*model.UploadResult, error)
	ProcessPhoto(ctx context.Context, slug, sourcePath string) (*storage.ProcessedImage, error)
	SweepBackups(ctx context.Context) (int, error)
}

type Config struct {
	Limits          model.Limits
	AsyncProcessing bool
	BackupRetention time.Duration
}

type UploadService struct {
	storage   *storage.LocalStorage
	processor *storage.ImageProcessor
	profiles  repository.Repository
	mirror    storage.Mirror
	queue     queue.Enqueuer
	locks     *keylock.KeyLock
	metrics   *metrics.Manager
	cfg       Config
	now       func() time.Time
}

// NewUploadService wires the upload flow. mirror and q may be nil.
func NewUploadService(
	cfg Config,
	local *storage.LocalStorage,
	processor *storage.ImageProcessor,
	profiles repository.Repository,
	mirror storage.Mirror,
	q queue.Enqueuer,
	locks *keylock.KeyLock,
	m *metrics.Manager,
) ServiceInterface {
	return &UploadService{
		storage:   local,
		processor: processor,
		profiles:  profiles,
		mirror:    mirror,
		queue:     q,
		locks:     locks,
		metrics:   m,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Upload validates and stores the photo and/or transcript of slug.
func (s *UploadService) Upload(ctx context.Context, slug string, files []model.IncomingFile) (*model.UploadResult, error) {
	if err := utils.ValidateSlugParam(slug); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, model.ErrNoFiles
	}

	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if seen[f.Field] {
			s.metrics.RecordUploadRejection(f.Field)
			return nil, model.NewTooManyFiles(f.Field)
		}
		seen[f.Field] = true

		if problems := model.ValidateFile(f.Field, f.OriginalName, f.MimeType, f.Size, s.cfg.Limits); len(problems) > 0 {
			s.metrics.RecordUploadRejection(f.Field)
			return nil, model.NewInvalidFile(f.Field, problems)
		}
	}

	unlock := s.locks.Lock("upload:" + slug)
	defer unlock()

	result := &model.UploadResult{
		Slug:            slug,
		UploadedFiles:   make(map[string]model.UploadedFile, len(files)),
		ProcessedImages: make(map[string]*storage.ProcessedImage),
		UploadedAt:      s.now().UTC(),
	}

	for _, f := range files {
		stored, err := s.store(slug, f)
		if err != nil {
			return nil, err
		}
		result.UploadedFiles[f.Field] = model.UploadedFile{
			OriginalName: f.OriginalName,
			FileName:     filepath.Base(stored),
			Size:         f.Size,
			MimeType:     f.MimeType,
		}
		s.metrics.RecordUpload(f.Field)
		s.mirrorFile(ctx, stored)

		switch f.Field {
		case model.FieldPhoto:
			if s.cfg.AsyncProcessing && s.queue != nil {
				if err := s.enqueuePhoto(slug, stored); err != nil {
					return nil, err
				}
				result.PhotoPending = true
				continue
			}
			processed, urls, err := s.processPhoto(ctx, slug, stored)
			if err != nil {
				return nil, err
			}
			result.ProcessedImages[model.FieldPhoto] = processed
			result.UploadURLs.Photo = urls

		case model.FieldTranscript:
			url := path.Join("/uploads", slug, filepath.Base(stored))
			result.UploadURLs.Transcript = url
			if err := s.updateProfile(ctx, slug, profileModel.MediaUpdate{Transcript: url}); err != nil {
				return nil, err
			}
		}
	}

	log.Info().
		Str("slug", slug).
		Int("files", len(files)).
		Bool("photo_pending", result.PhotoPending).
		Msg("Upload stored")

	return result, nil
}

// ProcessPhoto builds the derivatives of an already stored original.
// The worker calls it for uploads enqueued by Upload.
func (s *UploadService) ProcessPhoto(ctx context.Context, slug, sourcePath string) (*storage.ProcessedImage, error) {
	if err := utils.ValidateSlugParam(slug); err != nil {
		return nil, err
	}
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, apperror.IO(model.CodeUploadFailed, "Uploaded photo is no longer available", err)
	}

	unlock := s.locks.Lock("upload:" + slug)
	defer unlock()

	// a later upload's job owns cleanup and the profile photo
	newer, err := storage.NewerOriginals(s.storage.SlugDir(slug), sourcePath)
	if err != nil {
		return nil, apperror.IO(model.CodeUploadFailed, "Uploaded photo is no longer available", err)
	}
	if len(newer) > 0 {
		log.Info().Str("slug", slug).Str("source", sourcePath).Strs("newer", newer).Msg("Skipping superseded photo")
		return nil, model.ErrPhotoSuperseded
	}

	processed, _, err := s.processPhoto(ctx, slug, sourcePath)
	return processed, err
}

// SweepBackups removes "-backup-" files older than the configured retention.
func (s *UploadService) SweepBackups(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	removed, err := storage.SweepBackups(s.storage.Root, s.cfg.BackupRetention, s.now())
	if err != nil {
		return removed, apperror.IO("BACKUP_SWEEP_FAILED", "Failed to sweep backup files", err)
	}
	log.Info().Int("removed", removed).Dur("retention", s.cfg.BackupRetention).Msg("Backup sweep finished")
	return removed, nil
}

func (s *UploadService) store(slug string, f model.IncomingFile) (string, error) {
	// never trust the declared size alone
	data, err := io.ReadAll(io.LimitReader(f.Content, f.Size+1))
	if err != nil {
		return "", apperror.IO(model.CodeUploadFailed, "Failed to read uploaded file", err)
	}
	if int64(len(data)) > f.Size {
		s.metrics.RecordUploadRejection(f.Field)
		return "", model.NewInvalidFile(f.Field, []string{"Uploaded content is larger than declared"})
	}

	name := s.storage.UniqueFilename(f.OriginalName, slug)
	return s.storage.Save(slug, name, data)
}

func (s *UploadService) processPhoto(ctx context.Context, slug, sourcePath string) (*storage.ProcessedImage, *storage.ImageURLs, error) {
	processed, err := s.processor.Process(ctx, sourcePath)
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Str("source", sourcePath).Msg("Photo processing failed")
		return nil, nil, model.NewProcessingFailed(err)
	}

	// originals stored by another process after this one are kept too
	keep := processed.KeepFiles()
	if newer, err := storage.NewerOriginals(s.storage.SlugDir(slug), sourcePath); err == nil {
		keep = append(keep, newer...)
	}
	removed := storage.CleanupOldImages(s.storage.SlugDir(slug), keep)
	for _, p := range removed {
		s.unmirrorFile(ctx, p)
	}
	for _, p := range []string{processed.Thumbnail, processed.Mobile, processed.Desktop} {
		if p != "" {
			s.mirrorFile(ctx, p)
		}
	}

	urls := storage.GenerateImageURLs(processed, slug)
	if err := s.updateProfile(ctx, slug, profileModel.MediaUpdate{Photo: urls.Mobile}); err != nil {
		return nil, nil, err
	}
	return processed, &urls, nil
}

func (s *UploadService) enqueuePhoto(slug, sourcePath string) error {
	payload := shared.ProcessPhotoPayload{Slug: slug, SourcePath: sourcePath}
	if _, err := queue.EnqueueJSON(s.queue, shared.TypeProcessPhoto, payload, queue.ProcessPhotoOptions()...); err != nil {
		return apperror.Internal(model.CodeUploadFailed, "Failed to schedule photo processing", err)
	}
	return nil
}

// updateProfile records media paths on the profile of slug, if there is one.
func (s *UploadService) updateProfile(ctx context.Context, slug string, media profileModel.MediaUpdate) error {
	if s.profiles == nil {
		return nil
	}
	err := s.profiles.UpdateMedia(ctx, slug, media)
	if err == nil || apperror.IsKind(err, apperror.KindNotFound) {
		return nil
	}
	return apperror.Wrap(err, model.CodeUploadFailed, "Failed to update profile media")
}

func (s *UploadService) mirrorFile(ctx context.Context, localPath string) {
	if s.mirror == nil {
		return
	}
	key := storage.MirrorKey(s.storage.Root, localPath)
	if err := s.mirror.MirrorFile(ctx, key, localPath); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Object storage mirror failed")
	}
}

func (s *UploadService) unmirrorFile(ctx context.Context, localPath string) {
	if s.mirror == nil {
		return
	}
	key := storage.MirrorKey(s.storage.Root, localPath)
	if err := s.mirror.DeleteByPrefix(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Object storage delete failed")
	}
}
