package server

import (
	"net/http"

	"github.com/acrobase/backend/internal/catalog"
	"github.com/gin-gonic/gin"
)

type acronymPayload struct {
	ID     string `json:"id"`
	Short  string `json:"short"`
	Long   string `json:"long"`
	UserID string `json:"userID"`
}

func toAcronymPayload(acronym catalog.Acronym) acronymPayload {
	return acronymPayload{
		ID:     acronym.ID,
		Short:  acronym.Short,
		Long:   acronym.Long,
		UserID: acronym.UserID,
	}
}

func toAcronymPayloads(acronyms []catalog.Acronym) []acronymPayload {
	payloads := make([]acronymPayload, 0, len(acronyms))
	for _, acronym := range acronyms {
		payloads = append(payloads, toAcronymPayload(acronym))
	}
	return payloads
}

// acronymRequestPayload is the body for create and update. Categories is a
// pointer so "field absent" (leave categories untouched) stays distinct from
// "empty list" (detach every category).
type acronymRequestPayload struct {
	Short      string    `json:"short"`
	Long       string    `json:"long"`
	Categories *[]string `json:"categories"`
}

func (p acronymRequestPayload) categoryNames() []string {
	if p.Categories == nil {
		return nil
	}
	// An explicitly empty list must survive as a non-nil slice.
	names := make([]string, 0, len(*p.Categories))
	return append(names, *p.Categories...)
}

func (h *httpHandler) handleListAcronyms(c *gin.Context) {
	acronyms, err := h.catalog.ListAcronyms(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAcronymPayloads(acronyms))
}

func (h *httpHandler) handleCreateAcronym(c *gin.Context) {
	callerID := c.GetString(userIDContextKey)
	if callerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var request acronymRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || request.Short == "" || request.Long == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	acronym, err := h.catalog.CreateAcronym(c.Request.Context(), catalog.CreateAcronymRequest{
		Short:      request.Short,
		Long:       request.Long,
		UserID:     callerID,
		Categories: request.categoryNames(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAcronymPayload(acronym))
}

func (h *httpHandler) handleGetAcronym(c *gin.Context) {
	acronym, err := h.catalog.GetAcronym(c.Request.Context(), c.Param("acronymID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAcronymPayload(acronym))
}

// handleUpdateAcronym overwrites the acronym in place. Ownership moves to the
// caller performing the edit rather than being validated against the prior
// owner.
func (h *httpHandler) handleUpdateAcronym(c *gin.Context) {
	callerID := c.GetString(userIDContextKey)
	if callerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var request acronymRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || request.Short == "" || request.Long == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	acronym, err := h.catalog.UpdateAcronym(c.Request.Context(), c.Param("acronymID"), catalog.UpdateAcronymRequest{
		Short:      request.Short,
		Long:       request.Long,
		UserID:     callerID,
		Categories: request.categoryNames(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAcronymPayload(acronym))
}

func (h *httpHandler) handleDeleteAcronym(c *gin.Context) {
	if err := h.catalog.DeleteAcronym(c.Request.Context(), c.Param("acronymID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleSearchAcronyms(c *gin.Context) {
	acronyms, err := h.catalog.SearchAcronyms(c.Request.Context(), c.Query("term"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAcronymPayloads(acronyms))
}

func (h *httpHandler) handleFirstAcronym(c *gin.Context) {
	acronym, err := h.catalog.FirstAcronym(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAcronymPayload(acronym))
}

func (h *httpHandler) handleSortedAcronyms(c *gin.Context) {
	acronyms, err := h.catalog.SortedAcronyms(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAcronymPayloads(acronyms))
}

func (h *httpHandler) handleAcronymUser(c *gin.Context) {
	acronym, err := h.catalog.GetAcronym(c.Request.Context(), c.Param("acronymID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	owner, err := h.users.GetUser(c.Request.Context(), acronym.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, owner)
}

func (h *httpHandler) handleAcronymCategories(c *gin.Context) {
	categories, err := h.catalog.CategoriesOfAcronym(c.Request.Context(), c.Param("acronymID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCategoryPayloads(categories))
}

func (h *httpHandler) handleAttachCategory(c *gin.Context) {
	err := h.catalog.AttachCategory(c.Request.Context(), c.Param("acronymID"), c.Param("categoryID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *httpHandler) handleDetachCategory(c *gin.Context) {
	err := h.catalog.DetachCategory(c.Request.Context(), c.Param("acronymID"), c.Param("categoryID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
