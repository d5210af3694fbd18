package persistence

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio-builder/internal/domain/project"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

type postgresProjectRepo struct {
	db      *pgxpool.Pool
	logger  logger.Logger
	timeout queryTimeout
}

func NewPostgresProjectRepo(db *pgxpool.Pool, log logger.Logger, timeout time.Duration) project.Repository {
	return &postgresProjectRepo{db: db, logger: log, timeout: queryTimeout(timeout)}
}

const projectColumns = "id, user_id, title, description, tech_stack, github_link, live_link, image_url, created_at, updated_at"

func scanProject(row pgx.Row) (*project.Project, error) {
	p := &project.Project{}
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Description,
		&p.TechStack,
		&p.GithubLink,
		&p.LiveLink,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	return p, nil
}

func scanProjects(rows pgx.Rows) ([]*project.Project, error) {
	defer rows.Close()
	projects := make([]*project.Project, 0)

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, apperror.NewStoreUnavailable("failed to scan project row", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewStoreUnavailable("error iterating project rows", err)
	}
	return projects, nil
}

func (r *postgresProjectRepo) Save(ctx context.Context, p *project.Project) error {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	query := `
		INSERT INTO projects (id, user_id, title, description, tech_stack, github_link, live_link, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.UserID, p.Title, p.Description, p.TechStack,
		p.GithubLink, p.LiveLink, p.ImageURL, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return storeError("failed to save project", "Project", p.ID.String(), err)
	}
	return nil
}

func (r *postgresProjectRepo) Update(ctx context.Context, p *project.Project) error {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	query := `
		UPDATE projects SET
			title = $3, description = $4, tech_stack = $5, github_link = $6,
			live_link = $7, image_url = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		p.ID, p.UserID, p.Title, p.Description, p.TechStack,
		p.GithubLink, p.LiveLink, p.ImageURL, p.UpdatedAt,
	).Scan(&p.CreatedAt)
	if err != nil {
		return storeError("failed to update project", "Project", p.ID.String(), err)
	}
	return nil
}

func (r *postgresProjectRepo) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return storeError("failed to delete project", "Project", id.String(), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("Project", id.String())
	}
	return nil
}

func (r *postgresProjectRepo) FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*project.Project, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	sql, args, err := psql.Select(projectColumns).
		From("projects").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build find project query", err)
	}

	p, err := scanProject(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, storeError("failed to query project", "Project", id.String(), err)
	}
	return p, nil
}

func (r *postgresProjectRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*project.Project, error) {
	ctx, cancel := r.timeout.ctx(ctx)
	defer cancel()

	sql, args, err := psql.Select(projectColumns).
		From("projects").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list projects query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeError("failed to query projects by user", "Project", userID.String(), err)
	}
	return scanProjects(rows)
}
