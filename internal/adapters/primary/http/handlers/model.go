package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kubeserve/internal/adapters/primary/http/dto"
	"kubeserve/internal/adapters/primary/http/middleware"
	"kubeserve/internal/core/domain"
)

func (h *Handler) CreateModel(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req dto.CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model, err := h.modelSvc.Create(c.Request.Context(), userID, req.Name, domain.ModelKind(req.Kind))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToModelResponse(model))
}

func (h *Handler) ListModels(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	models, err := h.modelSvc.List(c.Request.Context(), userID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ModelResponse, 0, len(models))
	for _, m := range models {
		items = append(items, dto.ToModelResponse(m))
	}
	c.JSON(http.StatusOK, dto.ListModelsResponse{Items: items, Total: len(items)})
}

func (h *Handler) GetModel(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	model, err := h.modelSvc.Get(c.Request.Context(), userID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToModelResponse(model))
}

func (h *Handler) DeleteModel(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model id"})
		return
	}

	if err := h.modelSvc.Delete(c.Request.Context(), userID, id); err != nil {
		mapDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
