package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"kubeserve/internal/adapters/primary/http/dto"
	"kubeserve/internal/adapters/primary/http/middleware"
)

func (h *Handler) CreateDeployment(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req dto.CreateDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deployment, err := h.deploymentSvc.Create(c.Request.Context(), userID, req.VersionID, req.Replicas)
	if err != nil {
		log.WithError(err).WithField("version_id", req.VersionID).Error("create deployment failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDeploymentResponse(deployment))
}

func (h *Handler) ListDeployments(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	versionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return
	}

	deployments, err := h.deploymentSvc.ListByVersion(c.Request.Context(), userID, versionID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.DeploymentResponse, 0, len(deployments))
	for _, d := range deployments {
		items = append(items, dto.ToDeploymentResponse(d))
	}
	c.JSON(http.StatusOK, dto.ListDeploymentsResponse{Items: items, Total: len(items)})
}

func (h *Handler) GetDeployment(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deployment id"})
		return
	}

	deployment, err := h.deploymentSvc.Get(c.Request.Context(), userID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDeploymentResponse(deployment))
}

func (h *Handler) GetDeploymentStatus(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deployment id"})
		return
	}

	deployment, status, err := h.deploymentSvc.Status(c.Request.Context(), userID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDeploymentStatusResponse(deployment, status))
}

func (h *Handler) DeleteDeployment(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deployment id"})
		return
	}

	if err := h.deploymentSvc.Delete(c.Request.Context(), userID, id); err != nil {
		log.WithError(err).WithField("deployment_id", id).Error("delete deployment failed")
		mapDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
