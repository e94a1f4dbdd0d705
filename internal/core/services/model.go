package services

import (
	"context"

	"github.com/google/uuid"

	"kubeserve/internal/core/domain"
	"kubeserve/internal/core/ports/output"
)

type ModelService struct {
	modelRepo ports.ModelRepository
}

func NewModelService(modelRepo ports.ModelRepository) *ModelService {
	return &ModelService{modelRepo: modelRepo}
}

func (s *ModelService) Create(ctx context.Context, ownerID uuid.UUID, name string, kind domain.ModelKind) (*domain.Model, error) {
	model, err := domain.NewModel(ownerID, name, kind)
	if err != nil {
		return nil, err
	}
	if err := s.modelRepo.Create(ctx, model); err != nil {
		return nil, err
	}
	return model, nil
}

func (s *ModelService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.Model, error) {
	return s.modelRepo.GetByID(ctx, id, ownerID)
}

func (s *ModelService) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Model, error) {
	return s.modelRepo.ListByOwner(ctx, ownerID)
}

// Delete removes the model and, through cascades, its versions and
// deployments.
func (s *ModelService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.modelRepo.Delete(ctx, id, ownerID)
}
