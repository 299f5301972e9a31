package service

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"oneshot-backend/internal/domains/profile/model"
	"oneshot-backend/internal/domains/profile/render"
	"oneshot-backend/internal/infrastructure/qrcode"
	"oneshot-backend/internal/infrastructure/storage"
	"oneshot-backend/internal/shared/apperror"
	"oneshot-backend/internal/shared/utils"
	"oneshot-backend/pkg/keylock"
	"oneshot-backend/pkg/metrics"

	"github.com/rs/zerolog/log"
)

// Generator writes one static HTML page per slug into ProfilesDir.
// Writes for the same slug are serialised; the latest call wins.
type Generator struct {
	profilesDir string
	templates   *render.TemplateStore
	renderer    *render.Renderer
	qr          *qrcode.Encoder
	qrOptions   qrcode.Options
	locks       *keylock.KeyLock
	metrics     *metrics.Manager
	now         func() time.Time
}

type GeneratorConfig struct {
	ProfilesDir string
	QROptions   qrcode.Options
}

func NewGenerator(
	cfg GeneratorConfig,
	templates *render.TemplateStore,
	renderer *render.Renderer,
	qr *qrcode.Encoder,
	locks *keylock.KeyLock,
	m *metrics.Manager,
) *Generator {
	return &Generator{
		profilesDir: cfg.ProfilesDir,
		templates:   templates,
		renderer:    renderer,
		qr:          qr,
		qrOptions:   cfg.QROptions,
		locks:       locks,
		metrics:     m,
		now:         time.Now,
	}
}

// ProfileURL is the public address of the page generated for slug.
func ProfileURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + model.HTMLPath(slug)
}

// Generate renders athlete into <profilesDir>/<slug>.html.
// A broken template still produces a page; the result is marked Degraded.
func (g *Generator) Generate(ctx context.Context, athlete *model.AthleteProfile, baseURL string) (*model.GenerationResult, error) {
	start := g.now()

	result, err := g.generate(ctx, athlete, baseURL)

	took := g.now().Sub(start)
	switch {
	case err != nil:
		g.metrics.RecordGeneration(metrics.OutcomeFailed, took)
		log.Error().Err(err).Str("athlete", athlete.FullName).Msg("Profile generation failed")
		if apperror.IsKind(err, apperror.KindValidation) {
			return nil, err
		}
		return nil, apperror.Wrap(err, model.CodeGenerationFailed,
			fmt.Sprintf("Profile generation failed: %s", apperror.MessageOf(err)))
	case result.Degraded:
		g.metrics.RecordGeneration(metrics.OutcomeDegraded, took)
	default:
		g.metrics.RecordGeneration(metrics.OutcomeOK, took)
	}

	log.Info().
		Str("slug", result.Slug).
		Str("file", result.FileName).
		Bool("degraded", result.Degraded).
		Dur("took", took).
		Msg("Profile generated")

	return result, nil
}

func (g *Generator) generate(ctx context.Context, athlete *model.AthleteProfile, baseURL string) (*model.GenerationResult, error) {
	// 1. Slug
	slug := utils.GenerateSlug(athlete.FullName)
	if slug == "" {
		return nil, model.NewEmptySlug(athlete.FullName)
	}
	fileName := slug + ".html"
	profileURL := ProfileURL(baseURL, slug)

	// 2. QR code for the page itself
	qrDataURL, err := g.qr.DataURL(profileURL, g.qrOptions)
	if err != nil {
		return nil, err
	}

	// 3. Template (a read failure is fatal, compile failures degrade)
	tmpl, err := g.templates.Load()
	if err != nil {
		return nil, err
	}

	// 4. Render
	data := &render.Data{
		AthleteProfile:    athlete,
		HighlightVideoURL: utils.NormalizeVideoURL(athlete.HighlightVideoURL),
		HudlVideoURL:      athlete.HudlVideoURL,
		Slug:              slug,
		ProfileURL:        profileURL,
		QRCode:            template.URL(qrDataURL),
		Timestamp:         g.now().Format(render.TimestampLayout),
	}
	rendered := g.renderer.Render(tmpl, data)

	if err := ctx.Err(); err != nil {
		return nil, apperror.Internal(model.CodeGenerationFailed, "Profile generation cancelled", err)
	}

	// 5. Write, serialised per slug
	unlock := g.locks.Lock(slug)
	defer unlock()

	if err := os.MkdirAll(g.profilesDir, 0o755); err != nil {
		return nil, apperror.IO(model.CodeProfileDirFailed, "Could not create profiles directory", err)
	}

	filePath := filepath.Join(g.profilesDir, fileName)
	if err := storage.WriteFileAtomic(filePath, rendered.HTML, 0o644); err != nil {
		return nil, apperror.IO(model.CodeProfileWrite, fmt.Sprintf("Failed to write %s", fileName), err)
	}

	return &model.GenerationResult{
		Slug:       slug,
		FileName:   fileName,
		FilePath:   filePath,
		ProfileURL: profileURL,
		Degraded:   rendered.Degraded,
		Reason:     rendered.Reason,
	}, nil
}

// Exists reports whether a page has been generated for slug.
func (g *Generator) Exists(slug string) bool {
	if !utils.IsValidSlug(slug) {
		return false
	}
	_, err := os.Stat(filepath.Join(g.profilesDir, slug+".html"))
	return err == nil
}
