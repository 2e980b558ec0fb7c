package server

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/acrobase/backend/internal/catalog"
	"github.com/acrobase/backend/internal/users"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFiles embed.FS

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(templateFiles, "templates/*.html")
}

type indexPageContext struct {
	Title    string
	Acronyms []catalog.Acronym
}

type acronymPageContext struct {
	Title      string
	Acronym    catalog.Acronym
	User       users.Public
	Categories []catalog.Category
}

// handleIndexPage renders the browse page listing every acronym.
func (h *httpHandler) handleIndexPage(c *gin.Context) {
	acronyms, err := h.catalog.ListAcronyms(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.HTML(http.StatusOK, "index.html", indexPageContext{
		Title:    "Homepage",
		Acronyms: acronyms,
	})
}

// handleAcronymPage renders the detail page for one acronym with its owner's
// public projection and attached categories.
func (h *httpHandler) handleAcronymPage(c *gin.Context) {
	ctx := c.Request.Context()
	acronym, err := h.catalog.GetAcronym(ctx, c.Param("acronymID"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.String(http.StatusNotFound, "not found")
			return
		}
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	owner, err := h.users.GetUser(ctx, acronym.UserID)
	if err != nil {
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	categories, err := h.catalog.CategoriesOfAcronym(ctx, acronym.ID)
	if err != nil {
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.HTML(http.StatusOK, "acronym.html", acronymPageContext{
		Title:      acronym.Short,
		Acronym:    acronym,
		User:       owner,
		Categories: categories,
	})
}
