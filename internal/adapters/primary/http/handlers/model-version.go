package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"kubeserve/internal/adapters/primary/http/dto"
	"kubeserve/internal/adapters/primary/http/middleware"
	"kubeserve/internal/core/domain"
	"kubeserve/internal/core/services"
)

func (h *Handler) CreateModelVersion(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	modelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	var req dto.CreateModelVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.versionSvc.Create(c.Request.Context(), userID, modelID, req.VersionTag)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToModelVersionResponse(version))
}

func (h *Handler) ListModelVersions(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	modelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	versions, err := h.versionSvc.ListByModel(c.Request.Context(), userID, modelID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ModelVersionResponse, 0, len(versions))
	for _, v := range versions {
		items = append(items, dto.ToModelVersionResponse(v))
	}
	c.JSON(http.StatusOK, dto.ListModelVersionsResponse{Items: items, Total: len(items)})
}

func (h *Handler) GetModelVersion(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	versionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return
	}

	version, err := h.versionSvc.Get(c.Request.Context(), userID, versionID)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToModelVersionResponse(version))
}

func (h *Handler) UpdateVersionStatus(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	versionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return
	}

	var req dto.UpdateVersionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.versionSvc.UpdateStatus(c.Request.Context(), userID, versionID, domain.VersionStatus(req.Status))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToModelVersionResponse(version))
}

// UploadArtifact takes a multipart form with a "model" file and a
// "requirements" file and attaches the stored artifact to the version.
func (h *Handler) UploadArtifact(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	versionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return
	}

	modelFile, err := readFormFile(c, "model", services.MaxModelFileSize)
	if err != nil {
		if errors.Is(err, domain.ErrFileTooLarge) {
			mapDomainError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing model file"})
		return
	}
	requirementsFile, err := readFormFile(c, "requirements", services.MaxRequirementsFileSize)
	if err != nil {
		if errors.Is(err, domain.ErrFileTooLarge) {
			mapDomainError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing requirements file"})
		return
	}

	version, err := h.artifactSvc.Upload(c.Request.Context(), userID, versionID, modelFile, requirementsFile)
	if err != nil {
		log.WithError(err).WithField("version_id", versionID).Error("artifact upload failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToModelVersionResponse(version))
}

func readFormFile(c *gin.Context, field string, maxSize int64) (services.FileUpload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return services.FileUpload{}, err
	}
	// Reject on the declared size before buffering the body.
	if header.Size > maxSize {
		return services.FileUpload{}, domain.ErrFileTooLarge
	}
	return readMultipartFile(header)
}

func readMultipartFile(header *multipart.FileHeader) (services.FileUpload, error) {
	f, err := header.Open()
	if err != nil {
		return services.FileUpload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return services.FileUpload{}, err
	}
	return services.FileUpload{Name: header.Filename, Data: data}, nil
}
