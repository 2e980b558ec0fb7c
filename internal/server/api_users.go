package server

import (
	"net/http"

	"github.com/acrobase/backend/internal/users"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerRequestPayload struct {
	Name        string `json:"name"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	DeviceToken string `json:"deviceToken"`
}

type tokenResponsePayload struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (h *httpHandler) handleRegisterUser(c *gin.Context) {
	var request registerRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	projection, err := h.users.Register(c.Request.Context(), users.RegisterRequest{
		Name:        request.Name,
		Username:    request.Username,
		Password:    request.Password,
		DeviceToken: request.DeviceToken,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, projection)
}

// handleLogin exchanges basic-auth credentials for a bearer token.
func (h *httpHandler) handleLogin(c *gin.Context) {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	principal, err := h.users.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, expiresIn, err := h.tokens.IssueToken(c.Request.Context(), principal.ID)
	if err != nil {
		h.logger.Error("failed to issue bearer token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token_issue_failed"})
		return
	}

	c.JSON(http.StatusOK, tokenResponsePayload{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		TokenType:   "Bearer",
	})
}

func (h *httpHandler) handleListUsers(c *gin.Context) {
	projections, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projections)
}

func (h *httpHandler) handleGetUser(c *gin.Context) {
	projection, err := h.users.GetUser(c.Request.Context(), c.Param("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection)
}

func (h *httpHandler) handleUserAcronyms(c *gin.Context) {
	if _, err := h.users.GetUser(c.Request.Context(), c.Param("userID")); err != nil {
		h.respondError(c, err)
		return
	}
	acronyms, err := h.catalog.AcronymsOfUser(c.Request.Context(), c.Param("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAcronymPayloads(acronyms))
}
