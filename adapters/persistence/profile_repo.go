package persistence

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/internal/domain/profile"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

type postgresProfileRepo struct {
	db      *pgxpool.Pool
	logger  logger.Logger
	timeout queryTimeout
}

func NewPostgresProfileRepo(db *pgxpool.Pool, log logger.Logger, timeout time.Duration) profile.Repository {
	return &postgresProfileRepo{db: db, logger: log, timeout: queryTimeout(timeout)}
}

const profileColumns = `id, full_name, username, email, password_hash,
	title, intro, bio, location, phone_number, timezone, availability, preferred_work_type,
	hourly_rate, work_experience, selected_template, profile_img_url, resume_url,
	skills, languages, about_sections, experience_details, education, testimonials,
	certifications, social_links, section_order, visible_sections, seo_data,
	created_at, updated_at`

// profileDocs holds the JSONB columns of a users row.
type profileDocs struct {
	about, experience, education, testimonials, certifications, social, visible, seo []byte
}

func marshalProfileDocs(p *profile.Profile) (*profileDocs, error) {
	var (
		d   profileDocs
		err error
	)
	marshal := func(dst *[]byte, v any) {
		if err != nil {
			return
		}
		*dst, err = json.Marshal(v)
	}
	marshal(&d.about, p.AboutSections)
	marshal(&d.experience, p.ExperienceDetails)
	marshal(&d.education, p.Education)
	marshal(&d.testimonials, p.Testimonials)
	marshal(&d.certifications, p.Certifications)
	marshal(&d.social, p.SocialLinks)
	marshal(&d.visible, p.VisibleSections)
	marshal(&d.seo, p.SEO)
	if err != nil {
		return nil, apperror.NewInternal("failed to marshal profile documents", err)
	}
	return &d, nil
}

func scanProfile(row pgx.Row, l logger.Logger) (*profile.Profile, error) {
	p := &profile.Profile{}
	var d profileDocs

	err := row.Scan(
		&p.ID, &p.FullName, &p.Username, &p.Email, &p.PasswordHash,
		&p.Title, &p.Intro, &p.Bio, &p.Location, &p.PhoneNumber, &p.Timezone,
		&p.Availability, &p.PreferredWorkType,
		&p.HourlyRate, &p.WorkExperience, &p.SelectedTemplate, &p.ProfileImgURL, &p.ResumeURL,
		&p.Skills, &p.Languages, &d.about, &d.experience, &d.education, &d.testimonials,
		&d.certifications, &d.social, &p.SectionOrder, &d.visible, &d.seo,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	unmarshal := func(column string, src []byte, dst any) {
		if len(src) == 0 {
			return
		}
		if err := json.Unmarshal(src, dst); err != nil {
			l.Warn("Failed to unmarshal profile column", zap.String("column", column), zap.String("user_id", p.ID.String()), zap.Error(err))
		}
	}
	unmarshal("about_sections", d.about, &p.AboutSections)
	unmarshal("experience_details", d.experience, &p.ExperienceDetails)
	unmarshal("education", d.education, &p.Education)
	unmarshal("testimonials", d.testimonials, &p.Testimonials)
	unmarshal("certifications", d.certifications, &p.Certifications)
	unmarshal("social_links", d.social, &p.SocialLinks)
	unmarshal("visible_sections", d.visible, &p.VisibleSections)
	unmarshal("seo_data", d.seo, &p.SEO)

	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Languages == nil {
		p.Languages = []string{}
	}
	if p.SectionOrder == nil {
		p.SectionOrder = []string{}
	}
	if p.VisibleSections == nil {
		p.VisibleSections = profile.Visibility{}
	}
	p.SEO.ApplyDefaults()
	return p, nil
}

func (r *postgresProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	d, err := marshalProfileDocs(p)
	if err != nil {
		return err
	}

	sql, args, err := psql.Insert("users").SetMap(map[string]any{
		"id":                  p.ID,
		"full_name":           p.FullName,
		"username":            p.Username,
		"email":               p.Email,
		"password_hash":       p.PasswordHash,
		"title":               p.Title,
		"intro":               p.Intro,
		"bio":                 p.Bio,
		"location":            p.Location,
		"phone_number":        p.PhoneNumber,
		"timezone":            p.Timezone,
		"availability":        string(p.Availability),
		"preferred_work_type": string(p.PreferredWorkType),
		"hourly_rate":         p.HourlyRate,
		"work_experience":     p.WorkExperience,
		"selected_template":   p.SelectedTemplate,
		"profile_img_url":     p.ProfileImgURL,
		"resume_url":          p.ResumeURL,
		"skills":              p.Skills,
		"languages":           p.Languages,
		"about_sections":      d.about,
		"experience_details":  d.experience,
		"education":           d.education,
		"testimonials":        d.testimonials,
		"certifications":      d.certifications,
		"social_links":        d.social,
		"section_order":       p.SectionOrder,
		"visible_sections":    d.visible,
		"seo_data":            d.seo,
		"created_at":          p.CreatedAt,
		"updated_at":          p.UpdatedAt,
	}).ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build insert user query", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if pgErr, ok := isUniqueViolation(err); ok {
			if pgErr.ConstraintName == "users_username_key" {
				return apperror.NewConflict("User", "username", p.Username)
			}
			return apperror.NewConflict("User", "email", p.Email)
		}
		return storeError("failed to insert user", "User", p.ID.String(), err)
	}
	return nil
}

// Update writes the profile content columns. Layout and SEO columns have
// their own narrower statements.
func (r *postgresProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	d, err := marshalProfileDocs(p)
	if err != nil {
		return err
	}

	sql, args, err := psql.Update("users").SetMap(map[string]any{
		"full_name":           p.FullName,
		"title":               p.Title,
		"intro":               p.Intro,
		"bio":                 p.Bio,
		"location":            p.Location,
		"phone_number":        p.PhoneNumber,
		"timezone":            p.Timezone,
		"availability":        string(p.Availability),
		"preferred_work_type": string(p.PreferredWorkType),
		"hourly_rate":         p.HourlyRate,
		"work_experience":     p.WorkExperience,
		"selected_template":   p.SelectedTemplate,
		"profile_img_url":     p.ProfileImgURL,
		"resume_url":          p.ResumeURL,
		"skills":              p.Skills,
		"languages":           p.Languages,
		"about_sections":      d.about,
		"experience_details":  d.experience,
		"education":           d.education,
		"testimonials":        d.testimonials,
		"certifications":      d.certifications,
		"social_links":        d.social,
		"updated_at":          p.UpdatedAt,
	}).Where(sq.Eq{"id": p.ID}).ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build update user query", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return storeError("failed to update user", "User", p.ID.String(), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("User", p.ID.String())
	}
	return nil
}

func (r *postgresProfileRepo) findOne(ctx context.Context, column string, value any, identifier string) (*profile.Profile, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	sql, args, err := psql.Select(profileColumns).From("users").Where(sq.Eq{column: value}).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build find user query", err)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, sql, args...), r.logger)
	if err != nil {
		return nil, storeError("failed to query user", "User", identifier, err)
	}
	return p, nil
}

func (r *postgresProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	return r.findOne(ctx, "id", id, id.String())
}

func (r *postgresProfileRepo) FindByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	return r.findOne(ctx, "email", email, email)
}

func (r *postgresProfileRepo) FindByUsername(ctx context.Context, username string) (*profile.Profile, error) {
	return r.findOne(ctx, "username", username, username)
}

func (r *postgresProfileRepo) exists(ctx context.Context, column, value string) (bool, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE ` + column + ` = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, value).Scan(&exists); err != nil {
		return false, storeError("failed to check user existence", "User", value, err)
	}
	return exists, nil
}

func (r *postgresProfileRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *postgresProfileRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

func (r *postgresProfileRepo) UpdateSectionOrder(ctx context.Context, id uuid.UUID, order []string) ([]string, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	query := `UPDATE users SET section_order = $2, updated_at = $3 WHERE id = $1 RETURNING section_order`
	var saved []string
	if err := r.db.QueryRow(ctx, query, id, order, time.Now().UTC()).Scan(&saved); err != nil {
		return nil, storeError("failed to update section order", "User", id.String(), err)
	}
	if saved == nil {
		saved = []string{}
	}
	return saved, nil
}

func (r *postgresProfileRepo) SetSectionVisibility(ctx context.Context, id uuid.UUID, section string, visible bool) (profile.Visibility, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	query := `
		UPDATE users SET
			visible_sections = jsonb_set(COALESCE(visible_sections, '{}'::jsonb), ARRAY[$2::text], to_jsonb($3::boolean), true),
			updated_at = $4
		WHERE id = $1
		RETURNING visible_sections
	`
	var raw []byte
	if err := r.db.QueryRow(ctx, query, id, section, visible, time.Now().UTC()).Scan(&raw); err != nil {
		return nil, storeError("failed to update section visibility", "User", id.String(), err)
	}

	v := profile.Visibility{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, apperror.NewInternal("failed to decode visible_sections", err)
	}
	return v, nil
}

func (r *postgresProfileRepo) UpdateSEO(ctx context.Context, id uuid.UUID, seo profile.SEOData) error {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	raw, err := json.Marshal(seo)
	if err != nil {
		return apperror.NewInternal("failed to marshal seo_data", err)
	}

	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET seo_data = $2, updated_at = $3 WHERE id = $1`, id, raw, time.Now().UTC())
	if err != nil {
		return storeError("failed to update seo data", "User", id.String(), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("User", id.String())
	}
	return nil
}

func (r *postgresProfileRepo) UpdateSEOScore(ctx context.Context, id uuid.UUID, score int) error {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	cmdTag, err := r.db.Exec(ctx,
		`UPDATE users SET seo_data = jsonb_set(seo_data, '{seoScore}', to_jsonb($2::int)) WHERE id = $1`,
		id, score,
	)
	if err != nil {
		return storeError("failed to update seo score", "User", id.String(), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("User", id.String())
	}
	return nil
}
