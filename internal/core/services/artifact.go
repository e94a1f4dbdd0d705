package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"kubeserve/internal/core/domain"
	"kubeserve/internal/core/ports/output"
)

// Upload size caps, checked again at the transport layer before the body is
// buffered.
const (
	MaxModelFileSize        = 500 << 20 // 500 MiB
	MaxRequirementsFileSize = 1 << 20   // 1 MiB
)

var (
	allowedModelExtensions        = []string{".joblib", ".pkl", ".pickle"}
	allowedRequirementsExtensions = []string{".txt"}
)

// FileUpload is an in-memory uploaded file.
type FileUpload struct {
	Name string
	Data []byte
}

type ArtifactService struct {
	versionRepo ports.ModelVersionRepository
	modelRepo   ports.ModelRepository
	store       ports.ObjectStore
}

func NewArtifactService(versionRepo ports.ModelVersionRepository, modelRepo ports.ModelRepository, store ports.ObjectStore) *ArtifactService {
	return &ArtifactService{versionRepo: versionRepo, modelRepo: modelRepo, store: store}
}

// Upload validates and stores a version's model file and requirements file,
// then records the model file's stored path on the version.
func (s *ArtifactService) Upload(ctx context.Context, ownerID, versionID uuid.UUID, modelFile, requirementsFile FileUpload) (*domain.ModelVersion, error) {
	if s.store == nil {
		return nil, domain.ErrStorageUnavailable
	}

	version, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	model, err := s.modelRepo.GetByID(ctx, version.ModelID, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrModelNotFound) {
			return nil, domain.ErrAccessDenied
		}
		return nil, err
	}

	if err := validateFile(modelFile, MaxModelFileSize, allowedModelExtensions); err != nil {
		return nil, err
	}
	if err := validateFile(requirementsFile, MaxRequirementsFileSize, allowedRequirementsExtensions); err != nil {
		return nil, err
	}

	prefix := objectPrefix(ownerID, model.Name, version.VersionTag)

	modelPath, err := s.store.Upload(ctx, prefix+"/"+modelFile.Name,
		modelFile.Data, "application/octet-stream")
	if err != nil {
		return nil, fmt.Errorf("upload model file: %w", err)
	}
	if _, err := s.store.Upload(ctx, prefix+"/"+requirementsFile.Name,
		requirementsFile.Data, "text/plain"); err != nil {
		return nil, fmt.Errorf("upload requirements file: %w", err)
	}

	// The version records the model file path; requirements sit next to it
	// under the same prefix.
	version.SetArtifactPath(modelPath)
	if err := s.versionRepo.Update(ctx, version); err != nil {
		return nil, err
	}
	return version, nil
}

func validateFile(file FileUpload, maxSize int, allowedExtensions []string) error {
	if len(file.Data) > maxSize {
		return domain.ErrFileTooLarge
	}

	name := strings.ToLower(file.Name)
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(name, ext) {
			return nil
		}
	}
	return domain.ErrFileExtension
}

// objectPrefix builds models/{owner}/{model}/{tag} with the model name
// reduced to storage-safe characters.
func objectPrefix(ownerID uuid.UUID, modelName, versionTag string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, modelName)
	return fmt.Sprintf("models/%s/%s/%s", ownerID, sanitized, versionTag)
}
