package ports

import (
	"context"

	"github.com/google/uuid"

	"kubeserve/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ModelRepository reads are scoped by (id, owner_id) in a single predicate so
// an unowned model is indistinguishable from an absent one.
type ModelRepository interface {
	Create(ctx context.Context, model *domain.Model) error
	GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*domain.Model, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Model, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
}

type ModelVersionRepository interface {
	Create(ctx context.Context, version *domain.ModelVersion) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ModelVersion, error)
	GetByModelAndTag(ctx context.Context, modelID uuid.UUID, tag string) (*domain.ModelVersion, error)
	ListByModel(ctx context.Context, modelID uuid.UUID) ([]*domain.ModelVersion, error)
	Update(ctx context.Context, version *domain.ModelVersion) error
}

type DeploymentRepository interface {
	Create(ctx context.Context, deployment *domain.Deployment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deployment, error)
	GetByWorkloadName(ctx context.Context, name string) (*domain.Deployment, error)
	ListByVersion(ctx context.Context, versionID uuid.UUID) ([]*domain.Deployment, error)
	SetRouteURL(ctx context.Context, id uuid.UUID, routeURL string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
