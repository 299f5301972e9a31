package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"oneshot-backend/internal/domains/profile/model"
	"oneshot-backend/pkg/cache"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

type postgresRepository struct {
	pool     *pgxpool.Pool
	cache    cache.Cache // optional
	cacheTTL time.Duration
}

// NewPostgresRepository stores profiles in athlete_profiles. Lookups by
// id and slug go through the cache when one is given (cache-aside).
func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache, ttl time.Duration) Repository {
	return &postgresRepository{pool: pool, cache: c, cacheTTL: ttl}
}

const profileColumns = `
	id, user_id, slug, public, full_name, jersey_number,
	gpa, graduation_year, high_school_name, state,
	primary_position, secondary_position, height, weight,
	forty_yard_dash, vertical_jump, broad_jump, shuttle_time,
	bench_press, squat, deadlift,
	email, phone, twitter, coach_name, coach_phone,
	photo, transcript, highlight_video_url, hudl_video_url,
	bio, achievements, created_at, updated_at`

// ========================================
// WRITES
// ========================================

func (r *postgresRepository) Create(ctx context.Context, p *model.AthleteProfile) error {
	if p.ID == "" {
		p.ID = model.NewID()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	query := `INSERT INTO athlete_profiles (` + profileColumns + `) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
		$18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.UserID, p.Slug, p.Public, p.FullName, p.JerseyNumber,
		nullDecimal(p.GPA), nullInt(p.GraduationYear), p.HighSchoolName, p.State,
		p.PrimaryPosition, p.SecondaryPosition, p.Height, p.Weight,
		nullDecimal(p.FortyYardDashSeconds), nullDecimal(p.VerticalJumpInches),
		nullDecimal(p.BroadJumpInches), nullDecimal(p.ShuttleTimeSeconds),
		p.BenchPressLbs, p.SquatLbs, p.DeadliftLbs,
		p.Email, p.Phone, p.Twitter, p.CoachName, p.CoachPhone,
		p.Photo, p.Transcript, p.HighlightVideoURL, p.HudlVideoURL,
		p.Bio, achievementsOrEmpty(p.Achievements), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && strings.Contains(pgErr.ConstraintName, "slug") {
			return model.NewSlugTaken(p.Slug)
		}
		return model.NewRepositoryError("create", err)
	}

	return nil
}

func (r *postgresRepository) UpdateMedia(ctx context.Context, slug string, media model.MediaUpdate) error {
	query := `
		UPDATE athlete_profiles
		SET photo = COALESCE(NULLIF($2, ''), photo),
		    transcript = COALESCE(NULLIF($3, ''), transcript),
		    updated_at = NOW()
		WHERE slug = $1
		RETURNING id`

	var id string
	err := r.pool.QueryRow(ctx, query, slug, media.Photo, media.Transcript).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.NewProfileSlugNotFound(slug)
	}
	if err != nil {
		return model.NewRepositoryError("update", err)
	}

	r.invalidate(ctx, id, slug)
	return nil
}

// ========================================
// READS
// ========================================

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*model.AthleteProfile, error) {
	return r.getCached(ctx, "profile:id:"+id, func() (*model.AthleteProfile, error) {
		p, err := r.queryOne(ctx, `SELECT `+profileColumns+` FROM athlete_profiles WHERE id = $1`, id)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewProfileNotFound(id)
		}
		return p, err
	})
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.AthleteProfile, error) {
	return r.getCached(ctx, "profile:slug:"+slug, func() (*model.AthleteProfile, error) {
		p, err := r.queryOne(ctx, `SELECT `+profileColumns+` FROM athlete_profiles WHERE slug = $1`, slug)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewProfileSlugNotFound(slug)
		}
		return p, err
	})
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]*model.AthleteProfile, error) {
	var (
		conds = []string{"public = TRUE"}
		args  []interface{}
	)
	if filter.Position != "" {
		args = append(args, "%"+filter.Position+"%")
		conds = append(conds, fmt.Sprintf("primary_position ILIKE $%d", len(args)))
	}
	if filter.School != "" {
		args = append(args, "%"+filter.School+"%")
		conds = append(conds, fmt.Sprintf("high_school_name ILIKE $%d", len(args)))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		conds = append(conds, fmt.Sprintf("graduation_year = $%d", len(args)))
	}

	query := `SELECT ` + profileColumns + ` FROM athlete_profiles WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, model.NewRepositoryError("list", err)
	}
	defer rows.Close()

	profiles := make([]*model.AthleteProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, model.NewRepositoryError("list", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, model.NewRepositoryError("list", err)
	}
	return profiles, nil
}

// ========================================
// HELPERS
// ========================================

func (r *postgresRepository) getCached(ctx context.Context, key string, load func() (*model.AthleteProfile, error)) (*model.AthleteProfile, error) {
	if r.cache != nil {
		var cached model.AthleteProfile
		if found, err := r.cache.Get(ctx, key, &cached); err == nil && found {
			return &cached, nil
		}
	}

	p, err := load()
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, p, r.cacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to cache profile")
		}
	}
	return p, nil
}

func (r *postgresRepository) invalidate(ctx context.Context, id, slug string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, "profile:id:"+id, "profile:slug:"+slug); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Failed to invalidate profile cache")
	}
}

func (r *postgresRepository) queryOne(ctx context.Context, query string, arg interface{}) (*model.AthleteProfile, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, model.NewRepositoryError("get", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, model.NewRepositoryError("get", err)
		}
		return nil, pgx.ErrNoRows
	}
	p, err := scanProfile(rows)
	if err != nil {
		return nil, model.NewRepositoryError("get", err)
	}
	return p, nil
}

func scanProfile(row pgx.Row) (*model.AthleteProfile, error) {
	var (
		p                                    model.AthleteProfile
		gpa, forty, vertical, broad, shuttle decimal.NullDecimal
		year                                 *int
	)

	err := row.Scan(
		&p.ID, &p.UserID, &p.Slug, &p.Public, &p.FullName, &p.JerseyNumber,
		&gpa, &year, &p.HighSchoolName, &p.State,
		&p.PrimaryPosition, &p.SecondaryPosition, &p.Height, &p.Weight,
		&forty, &vertical, &broad, &shuttle,
		&p.BenchPressLbs, &p.SquatLbs, &p.DeadliftLbs,
		&p.Email, &p.Phone, &p.Twitter, &p.CoachName, &p.CoachPhone,
		&p.Photo, &p.Transcript, &p.HighlightVideoURL, &p.HudlVideoURL,
		&p.Bio, &p.Achievements, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.GPA = fromNullDecimal(gpa)
	p.FortyYardDashSeconds = fromNullDecimal(forty)
	p.VerticalJumpInches = fromNullDecimal(vertical)
	p.BroadJumpInches = fromNullDecimal(broad)
	p.ShuttleTimeSeconds = fromNullDecimal(shuttle)
	if year != nil {
		p.GraduationYear = *year
	}
	if len(p.Achievements) == 0 {
		p.Achievements = nil
	}
	return &p, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

func nullInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func achievementsOrEmpty(a []string) []string {
	if a == nil {
		return []string{}
	}
	return a
}
