package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/acrobase/backend/internal/auth"
	"github.com/acrobase/backend/internal/catalog"
	"github.com/acrobase/backend/internal/users"
	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const testServerSigningSecret = "router-test-secret"

type testStack struct {
	handler http.Handler
	users   *users.Service
	catalog *catalog.Service
	tokens  *auth.TokenIssuer
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	databaseName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", databaseName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&users.User{}, &catalog.Acronym{}, &catalog.Category{}, &catalog.AcronymCategory{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	usersService, err := users.NewService(users.ServiceConfig{
		Database:   db,
		IDProvider: catalog.NewUUIDProvider(),
		Hasher:     auth.NewPasswordHasher(),
	})
	if err != nil {
		t.Fatalf("failed to build users service: %v", err)
	}

	catalogService, err := catalog.NewService(catalog.ServiceConfig{
		Database:   db,
		IDProvider: catalog.NewUUIDProvider(),
		Owners:     usersService,
	})
	if err != nil {
		t.Fatalf("failed to build catalog service: %v", err)
	}

	tokenIssuer := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte(testServerSigningSecret),
		Issuer:        "acrobase-auth",
		Audience:      "acrobase-api",
		TokenTTL:      time.Hour,
	})

	handler, err := NewHTTPHandler(Dependencies{
		TokenManager:   tokenIssuer,
		CatalogService: catalogService,
		UsersService:   usersService,
	})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}

	return &testStack{
		handler: handler,
		users:   usersService,
		catalog: catalogService,
		tokens:  tokenIssuer,
	}
}

// registerAndLogin creates an account and returns its id plus a bearer token.
func (s *testStack) registerAndLogin(t *testing.T, username string) (string, string) {
	t.Helper()
	projection, err := s.users.Register(context.Background(), users.RegisterRequest{
		Name:     "Test " + username,
		Username: username,
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("failed to register %q: %v", username, err)
	}
	token, _, err := s.tokens.IssueToken(context.Background(), projection.ID)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return projection.ID, token
}

func (s *testStack) do(t *testing.T, method, path, bearerToken string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if bearerToken != "" {
		request.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	recorder := httptest.NewRecorder()
	s.handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeJSON[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	if err := json.Unmarshal(recorder.Body.Bytes(), &value); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
	return value
}
