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

type deploymentRepo struct {
	pool *pgxpool.Pool
}

func NewDeploymentRepository(pool *pgxpool.Pool) ports.DeploymentRepository {
	return &deploymentRepo{pool: pool}
}

func (r *deploymentRepo) Create(ctx context.Context, deployment *domain.Deployment) error {
	query := `
		INSERT INTO deployments
			(id, created_at, updated_at, version_id, workload_name, route_url, replica_count)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
	`
	_, err := r.pool.Exec(ctx, query,
		deployment.ID, deployment.CreatedAt, deployment.UpdatedAt,
		deployment.VersionID, deployment.WorkloadName, deployment.RouteURL,
		deployment.ReplicaCount,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrWorkloadNameConflict
		}
		return fmt.Errorf("create deployment: %w", err)
	}
	return nil
}

func (r *deploymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deployment, error) {
	query := `
		SELECT id, created_at, updated_at, version_id, workload_name,
			   COALESCE(route_url, ''), replica_count
		FROM deployments
		WHERE id = $1
	`
	d, err := scanDeployment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDeploymentNotFound
		}
		return nil, fmt.Errorf("get deployment by id: %w", err)
	}
	return d, nil
}

func (r *deploymentRepo) GetByWorkloadName(ctx context.Context, name string) (*domain.Deployment, error) {
	query := `
		SELECT id, created_at, updated_at, version_id, workload_name,
			   COALESCE(route_url, ''), replica_count
		FROM deployments
		WHERE workload_name = $1
	`
	d, err := scanDeployment(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDeploymentNotFound
		}
		return nil, fmt.Errorf("get deployment by workload name: %w", err)
	}
	return d, nil
}

func (r *deploymentRepo) ListByVersion(ctx context.Context, versionID uuid.UUID) ([]*domain.Deployment, error) {
	query := `
		SELECT id, created_at, updated_at, version_id, workload_name,
			   COALESCE(route_url, ''), replica_count
		FROM deployments
		WHERE version_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, versionID)
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	defer rows.Close()

	deployments := []*domain.Deployment{}
	for rows.Next() {
		d, err := scanDeployment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deployment: %w", err)
		}
		deployments = append(deployments, d)
	}
	return deployments, rows.Err()
}

func (r *deploymentRepo) SetRouteURL(ctx context.Context, id uuid.UUID, routeURL string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE deployments SET route_url = NULLIF($1, ''), updated_at = NOW() WHERE id = $2`,
		routeURL, id)
	if err != nil {
		return fmt.Errorf("set deployment route url: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrDeploymentNotFound
	}
	return nil
}

func (r *deploymentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM deployments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete deployment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrDeploymentNotFound
	}
	return nil
}

func scanDeployment(row pgx.Row) (*domain.Deployment, error) {
	var d domain.Deployment
	if err := row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt, &d.VersionID,
		&d.WorkloadName, &d.RouteURL, &d.ReplicaCount); err != nil {
		return nil, err
	}
	return &d, nil
}
