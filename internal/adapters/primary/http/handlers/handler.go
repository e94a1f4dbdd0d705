package handlers

import (
	"github.com/gin-gonic/gin"

	"kubeserve/internal/core/services"
)

type Handler struct {
	userSvc       *services.UserService
	modelSvc      *services.ModelService
	versionSvc    *services.ModelVersionService
	artifactSvc   *services.ArtifactService
	deploymentSvc *services.DeploymentService
}

func New(
	userSvc *services.UserService,
	modelSvc *services.ModelService,
	versionSvc *services.ModelVersionService,
	artifactSvc *services.ArtifactService,
	deploymentSvc *services.DeploymentService,
) *Handler {
	return &Handler{
		userSvc:       userSvc,
		modelSvc:      modelSvc,
		versionSvc:    versionSvc,
		artifactSvc:   artifactSvc,
		deploymentSvc: deploymentSvc,
	}
}

// RegisterRoutes mounts the API. Everything except registration and login
// sits behind the auth middleware.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	protected := r.Group("", auth)

	protected.GET("/auth/me", h.Me)

	// Models
	protected.POST("/models", h.CreateModel)
	protected.GET("/models", h.ListModels)
	protected.GET("/models/:id", h.GetModel)
	protected.DELETE("/models/:id", h.DeleteModel)

	// Model versions (nested under model)
	protected.POST("/models/:id/versions", h.CreateModelVersion)
	protected.GET("/models/:id/versions", h.ListModelVersions)

	// Model versions (direct access)
	protected.GET("/versions/:id", h.GetModelVersion)
	protected.PATCH("/versions/:id/status", h.UpdateVersionStatus)
	protected.POST("/versions/:id/artifact", h.UploadArtifact)

	// Deployments
	protected.POST("/deployments", h.CreateDeployment)
	protected.GET("/versions/:id/deployments", h.ListDeployments)
	protected.GET("/deployments/:id", h.GetDeployment)
	protected.GET("/deployments/:id/status", h.GetDeploymentStatus)
	protected.DELETE("/deployments/:id", h.DeleteDeployment)
}
