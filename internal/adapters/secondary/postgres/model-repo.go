package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kubeserve/internal/core/domain"
	"kubeserve/internal/core/ports/output"
)

type modelRepo struct {
	pool *pgxpool.Pool
}

func NewModelRepository(pool *pgxpool.Pool) ports.ModelRepository {
	return &modelRepo{pool: pool}
}

func (r *modelRepo) Create(ctx context.Context, model *domain.Model) error {
	query := `
		INSERT INTO models (id, created_at, updated_at, owner_id, name, kind)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		model.ID, model.CreatedAt, model.UpdatedAt,
		model.OwnerID, model.Name, string(model.Kind),
	)
	if err != nil {
		return fmt.Errorf("create model: %w", err)
	}
	return nil
}

// GetByID scopes the read by owner in the same predicate; an unowned model
// reads as absent.
func (r *modelRepo) GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*domain.Model, error) {
	query := `
		SELECT id, created_at, updated_at, owner_id, name, kind
		FROM models
		WHERE id = $1 AND owner_id = $2
	`
	m, err := scanModel(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("get model by id: %w", err)
	}
	return m, nil
}

func (r *modelRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Model, error) {
	query := `
		SELECT id, created_at, updated_at, owner_id, name, kind
		FROM models
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	models := []*domain.Model{}
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

// Delete removes the model row; versions and deployments go with it via
// ON DELETE CASCADE.
func (r *modelRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM models WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

func scanModel(row pgx.Row) (*domain.Model, error) {
	var m domain.Model
	var kind string
	if err := row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt, &m.OwnerID, &m.Name, &kind); err != nil {
		return nil, err
	}
	m.Kind = domain.ModelKind(kind)
	return &m, nil
}
