package server

import (
	"net/http"

	"github.com/acrobase/backend/internal/catalog"
	"github.com/gin-gonic/gin"
)

type categoryPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toCategoryPayload(category catalog.Category) categoryPayload {
	return categoryPayload{ID: category.ID, Name: category.Name}
}

func toCategoryPayloads(categories []catalog.Category) []categoryPayload {
	payloads := make([]categoryPayload, 0, len(categories))
	for _, category := range categories {
		payloads = append(payloads, toCategoryPayload(category))
	}
	return payloads
}

type categoryRequestPayload struct {
	Name string `json:"name"`
}

func (h *httpHandler) handleListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryPayloads(categories))
}

func (h *httpHandler) handleCreateCategory(c *gin.Context) {
	var request categoryRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || request.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	category, err := h.catalog.FindOrCreateCategory(c.Request.Context(), request.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCategoryPayload(category))
}

func (h *httpHandler) handleGetCategory(c *gin.Context) {
	category, err := h.catalog.GetCategory(c.Request.Context(), c.Param("categoryID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryPayload(category))
}

func (h *httpHandler) handleCategoryAcronyms(c *gin.Context) {
	acronyms, err := h.catalog.AcronymsOfCategory(c.Request.Context(), c.Param("categoryID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAcronymPayloads(acronyms))
}

func (h *httpHandler) handleDeleteCategory(c *gin.Context) {
	if err := h.catalog.DeleteCategory(c.Request.Context(), c.Param("categoryID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
