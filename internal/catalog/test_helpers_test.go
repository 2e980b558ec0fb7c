package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// staticOwnerDirectory recognises a fixed set of user identifiers.
type staticOwnerDirectory struct {
	known map[string]struct{}
}

func newStaticOwnerDirectory(userIDs ...string) *staticOwnerDirectory {
	known := make(map[string]struct{}, len(userIDs))
	for _, userID := range userIDs {
		known[userID] = struct{}{}
	}
	return &staticOwnerDirectory{known: known}
}

func (d *staticOwnerDirectory) UserExists(_ context.Context, userID string) (bool, error) {
	_, exists := d.known[userID]
	return exists, nil
}

func newTestService(t *testing.T, owners OwnerDirectory) *Service {
	t.Helper()

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

	if err := db.AutoMigrate(&Acronym{}, &Category{}, &AcronymCategory{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	service, err := NewService(ServiceConfig{
		Database:   db,
		IDProvider: NewUUIDProvider(),
		Owners:     owners,
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return service
}

func mustCreateAcronym(t *testing.T, service *Service, short, long, userID string, categories []string) Acronym {
	t.Helper()
	acronym, err := service.CreateAcronym(context.Background(), CreateAcronymRequest{
		Short:      short,
		Long:       long,
		UserID:     userID,
		Categories: categories,
	})
	if err != nil {
		t.Fatalf("failed to create acronym: %v", err)
	}
	return acronym
}

func categoryNames(t *testing.T, service *Service, acronymID string) []string {
	t.Helper()
	categories, err := service.CategoriesOfAcronym(context.Background(), acronymID)
	if err != nil {
		t.Fatalf("failed to list categories: %v", err)
	}
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, category.Name)
	}
	return names
}

func namesAsSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func assertCategorySet(t *testing.T, service *Service, acronymID string, expected []string) {
	t.Helper()
	actual := namesAsSet(categoryNames(t, service, acronymID))
	wanted := namesAsSet(expected)
	if len(actual) != len(wanted) {
		t.Fatalf("expected category set %v, got %v", expected, actual)
	}
	for name := range wanted {
		if _, present := actual[name]; !present {
			t.Fatalf("expected category %q attached, got %v", name, actual)
		}
	}
}
