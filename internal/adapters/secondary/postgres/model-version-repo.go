package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"kubeserve/internal/core/domain"
	"kubeserve/internal/core/ports/output"
)

type modelVersionRepo struct {
	pool *pgxpool.Pool
}

func NewModelVersionRepository(pool *pgxpool.Pool) ports.ModelVersionRepository {
	return &modelVersionRepo{pool: pool}
}

func (r *modelVersionRepo) Create(ctx context.Context, version *domain.ModelVersion) error {
	query := `
		INSERT INTO model_versions
			(id, created_at, updated_at, model_id, version_tag, artifact_path, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		version.ID, version.CreatedAt, version.UpdatedAt,
		version.ModelID, version.VersionTag, version.ArtifactPath, string(version.Status),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrVersionTagConflict
		}
		return fmt.Errorf("create model version: %w", err)
	}
	return nil
}

func (r *modelVersionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ModelVersion, error) {
	query := `
		SELECT id, created_at, updated_at, model_id, version_tag, artifact_path, status
		FROM model_versions
		WHERE id = $1
	`
	v, err := scanVersion(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get model version by id: %w", err)
	}
	return v, nil
}

func (r *modelVersionRepo) GetByModelAndTag(ctx context.Context, modelID uuid.UUID, tag string) (*domain.ModelVersion, error) {
	query := `
		SELECT id, created_at, updated_at, model_id, version_tag, artifact_path, status
		FROM model_versions
		WHERE model_id = $1 AND version_tag = $2
	`
	v, err := scanVersion(r.pool.QueryRow(ctx, query, modelID, tag))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get model version by tag: %w", err)
	}
	return v, nil
}

func (r *modelVersionRepo) ListByModel(ctx context.Context, modelID uuid.UUID) ([]*domain.ModelVersion, error) {
	query := `
		SELECT id, created_at, updated_at, model_id, version_tag, artifact_path, status
		FROM model_versions
		WHERE model_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, modelID)
	if err != nil {
		return nil, fmt.Errorf("list model versions: %w", err)
	}
	defer rows.Close()

	versions := []*domain.ModelVersion{}
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (r *modelVersionRepo) Update(ctx context.Context, version *domain.ModelVersion) error {
	query := `
		UPDATE model_versions
		SET artifact_path = $1, status = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.pool.Exec(ctx, query,
		version.ArtifactPath, string(version.Status), version.ID)
	if err != nil {
		return fmt.Errorf("update model version: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}

func scanVersion(row pgx.Row) (*domain.ModelVersion, error) {
	var v domain.ModelVersion
	var status string
	if err := row.Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt, &v.ModelID,
		&v.VersionTag, &v.ArtifactPath, &status); err != nil {
		return nil, err
	}
	v.Status = domain.VersionStatus(status)
	return &v, nil
}
