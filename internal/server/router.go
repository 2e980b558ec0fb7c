package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/acrobase/backend/internal/catalog"
	"github.com/acrobase/backend/internal/users"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userIDContextKey = "acrobase_user_id"

var (
	errMissingTokenManager   = errors.New("token manager dependency required")
	errMissingCatalogService = errors.New("catalog service dependency required")
	errMissingUsersService   = errors.New("users service dependency required")
	errInvalidAuthorization  = errors.New("authorization header missing or invalid")
)

// TokenManager issues and validates the bearer tokens that gate mutating
// operations.
type TokenManager interface {
	IssueToken(ctx context.Context, userID string) (string, int64, error)
	ValidateToken(token string) (string, error)
}

// Dependencies lists the collaborators the HTTP layer composes.
type Dependencies struct {
	TokenManager   TokenManager
	CatalogService *catalog.Service
	UsersService   *users.Service
	Logger         *zap.Logger
}

// NewHTTPHandler builds the gin handler exposing the REST API and the
// server-rendered browse pages. Routes are enumerated statically here.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.TokenManager == nil {
		return nil, errMissingTokenManager
	}
	if deps.CatalogService == nil {
		return nil, errMissingCatalogService
	}
	if deps.UsersService == nil {
		return nil, errMissingUsersService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		tokens:  deps.TokenManager,
		catalog: deps.CatalogService,
		users:   deps.UsersService,
		logger:  logger,
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(templates)

	router.GET("/", handler.handleIndexPage)
	router.GET("/acronyms/:acronymID", handler.handleAcronymPage)

	api := router.Group("/api")
	api.POST("/users", handler.handleRegisterUser)
	api.POST("/users/login", handler.handleLogin)
	api.GET("/users", handler.handleListUsers)
	api.GET("/users/:userID", handler.handleGetUser)
	api.GET("/users/:userID/acronyms", handler.handleUserAcronyms)

	api.GET("/acronyms", handler.handleListAcronyms)
	api.GET("/acronyms/search", handler.handleSearchAcronyms)
	api.GET("/acronyms/first", handler.handleFirstAcronym)
	api.GET("/acronyms/sorted", handler.handleSortedAcronyms)
	api.GET("/acronyms/:acronymID", handler.handleGetAcronym)
	api.GET("/acronyms/:acronymID/user", handler.handleAcronymUser)
	api.GET("/acronyms/:acronymID/categories", handler.handleAcronymCategories)

	api.GET("/categories", handler.handleListCategories)
	api.GET("/categories/:categoryID", handler.handleGetCategory)
	api.GET("/categories/:categoryID/acronyms", handler.handleCategoryAcronyms)

	protected := api.Group("/")
	protected.Use(handler.authorizeRequest)
	protected.POST("/acronyms", handler.handleCreateAcronym)
	protected.PUT("/acronyms/:acronymID", handler.handleUpdateAcronym)
	protected.DELETE("/acronyms/:acronymID", handler.handleDeleteAcronym)
	protected.POST("/acronyms/:acronymID/categories/:categoryID", handler.handleAttachCategory)
	protected.DELETE("/acronyms/:acronymID/categories/:categoryID", handler.handleDetachCategory)
	protected.POST("/categories", handler.handleCreateCategory)
	protected.DELETE("/categories/:categoryID", handler.handleDeleteCategory)

	return router, nil
}

type httpHandler struct {
	tokens  TokenManager
	catalog *catalog.Service
	users   *users.Service
	logger  *zap.Logger
}

// authorizeRequest resolves the bearer token into the caller's user id. Every
// mutating route sits behind it; a request without a resolvable principal
// never reaches a handler.
func (h *httpHandler) authorizeRequest(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	subject, err := h.tokens.ValidateToken(token)
	if err != nil {
		h.logger.Warn("token validation failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(userIDContextKey, subject)
	c.Next()
}
