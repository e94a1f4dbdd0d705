package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kubeserve/internal/core/domain"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrModelNotFound),
		errors.Is(err, domain.ErrVersionNotFound),
		errors.Is(err, domain.ErrDeploymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Auth errors
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrWorkloadNameConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Bad request / validation / precondition errors
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrVersionTagConflict),
		errors.Is(err, domain.ErrInvalidModelName),
		errors.Is(err, domain.ErrInvalidModelKind),
		errors.Is(err, domain.ErrInvalidVersionTag),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrVersionNotReady),
		errors.Is(err, domain.ErrArtifactMissing),
		errors.Is(err, domain.ErrInvalidReplicas),
		errors.Is(err, domain.ErrInvalidArtifactPath),
		errors.Is(err, domain.ErrFileTooLarge),
		errors.Is(err, domain.ErrFileExtension):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Service unavailable errors
	case errors.Is(err, domain.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
