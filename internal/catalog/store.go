package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errMissingDatabase   = errors.New("database handle is required")
	errMissingIDProvider = errors.New("id provider is required")
	errMissingOwners     = errors.New("owner directory is required")
	noOpLogger           = zap.NewNop()
)

// ServiceError wraps a failure with a stable operation code.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

const (
	opServiceNew     = "catalog.service.new"
	opCreateAcronym  = "catalog.create_acronym"
	opGetAcronym     = "catalog.get_acronym"
	opUpdateAcronym  = "catalog.update_acronym"
	opDeleteAcronym  = "catalog.delete_acronym"
	opCreateCategory = "catalog.create_category"
	opGetCategory    = "catalog.get_category"
	opListCategories = "catalog.list_categories"
	opDeleteCategory = "catalog.delete_category"
	opAttachCategory = "catalog.attach_category"
	opDetachCategory = "catalog.detach_category"
	opReconcile      = "catalog.reconcile_categories"
	opListAcronyms   = "catalog.list_acronyms"
	opSearchAcronyms = "catalog.search_acronyms"
	opFirstAcronym   = "catalog.first_acronym"
	opSortedAcronyms = "catalog.sorted_acronyms"
	opCategoriesOf   = "catalog.categories_of_acronym"
	opAcronymsOf     = "catalog.acronyms_of_category"
	opAcronymsOfUser = "catalog.acronyms_of_user"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// IDProvider issues identifiers for newly created records.
type IDProvider interface {
	NewID() (string, error)
}

// OwnerDirectory answers whether a user identifier references an existing user.
type OwnerDirectory interface {
	UserExists(ctx context.Context, userID string) (bool, error)
}

// ServiceConfig describes the dependencies required by the catalog service.
type ServiceConfig struct {
	Database   *gorm.DB
	IDProvider IDProvider
	Owners     OwnerDirectory
	Logger     *zap.Logger
}

// Service persists acronyms, categories, and the association edges between
// them, and answers filtered queries over the collection.
type Service struct {
	db         *gorm.DB
	idProvider IDProvider
	owners     OwnerDirectory
	logger     *zap.Logger
}

// NewService constructs the catalog service after validating its dependencies.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, "missing_database", errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}
	if cfg.Owners == nil {
		return nil, newServiceError(opServiceNew, "missing_owner_directory", errMissingOwners)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{
		db:         cfg.Database,
		idProvider: cfg.IDProvider,
		owners:     cfg.Owners,
		logger:     logger,
	}, nil
}

// CreateAcronym persists a new acronym for the owning user and attaches any
// requested initial categories. A nil category list attaches nothing.
func (s *Service) CreateAcronym(ctx context.Context, request CreateAcronymRequest) (Acronym, error) {
	if err := s.requireOwner(ctx, opCreateAcronym, request.UserID); err != nil {
		return Acronym{}, err
	}

	identifier, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opCreateAcronym, "id_generation_failed", err)
		return Acronym{}, newServiceError(opCreateAcronym, "id_generation_failed", err)
	}

	acronym := Acronym{
		ID:     identifier,
		Short:  request.Short,
		Long:   request.Long,
		UserID: request.UserID,
	}
	if err := s.db.WithContext(ctx).Create(&acronym).Error; err != nil {
		s.logError(opCreateAcronym, "insert_failed", err, zap.String("user_id", request.UserID))
		return Acronym{}, newServiceError(opCreateAcronym, "insert_failed", err)
	}
	if acronym.ID == "" {
		s.logError(opCreateAcronym, "missing_assigned_id", ErrInternal)
		return Acronym{}, newServiceError(opCreateAcronym, "missing_assigned_id", ErrInternal)
	}

	if request.Categories != nil {
		if err := s.ReconcileCategories(ctx, acronym.ID, request.Categories); err != nil {
			return Acronym{}, err
		}
	}

	return acronym, nil
}

// GetAcronym resolves an acronym by identifier.
func (s *Service) GetAcronym(ctx context.Context, acronymID string) (Acronym, error) {
	var acronym Acronym
	err := s.db.WithContext(ctx).Where("acronym_id = ?", acronymID).Take(&acronym).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Acronym{}, newServiceError(opGetAcronym, "acronym_missing", ErrNotFound)
	}
	if err != nil {
		s.logError(opGetAcronym, "query_failed", err, zap.String("acronym_id", acronymID))
		return Acronym{}, newServiceError(opGetAcronym, "query_failed", err)
	}
	return acronym, nil
}

// UpdateAcronym overwrites an acronym's short form, long form, and owner in
// place, then reconciles its category set when the request carries one. The
// owner is taken from the request verbatim: whoever performs the edit becomes
// the owner.
func (s *Service) UpdateAcronym(ctx context.Context, acronymID string, request UpdateAcronymRequest) (Acronym, error) {
	if err := s.requireOwner(ctx, opUpdateAcronym, request.UserID); err != nil {
		return Acronym{}, err
	}

	var acronym Acronym
	err := s.db.WithContext(ctx).Where("acronym_id = ?", acronymID).Take(&acronym).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Acronym{}, newServiceError(opUpdateAcronym, "acronym_missing", ErrNotFound)
	}
	if err != nil {
		s.logError(opUpdateAcronym, "select_failed", err, zap.String("acronym_id", acronymID))
		return Acronym{}, newServiceError(opUpdateAcronym, "select_failed", err)
	}

	acronym.Short = request.Short
	acronym.Long = request.Long
	acronym.UserID = request.UserID
	if err := s.db.WithContext(ctx).Save(&acronym).Error; err != nil {
		s.logError(opUpdateAcronym, "save_failed", err, zap.String("acronym_id", acronymID))
		return Acronym{}, newServiceError(opUpdateAcronym, "save_failed", err)
	}

	if request.Categories != nil {
		if err := s.ReconcileCategories(ctx, acronym.ID, request.Categories); err != nil {
			return Acronym{}, err
		}
	}

	return acronym, nil
}

// DeleteAcronym removes an acronym together with every association edge that
// references it. The edge cleanup and the row delete share one transaction.
func (s *Service) DeleteAcronym(ctx context.Context, acronymID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var acronym Acronym
		err := tx.Where("acronym_id = ?", acronymID).Take(&acronym).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newServiceError(opDeleteAcronym, "acronym_missing", ErrNotFound)
		}
		if err != nil {
			s.logError(opDeleteAcronym, "select_failed", err, zap.String("acronym_id", acronymID))
			return newServiceError(opDeleteAcronym, "select_failed", err)
		}

		if err := tx.Where("acronym_id = ?", acronymID).Delete(&AcronymCategory{}).Error; err != nil {
			s.logError(opDeleteAcronym, "edge_cascade_failed", err, zap.String("acronym_id", acronymID))
			return newServiceError(opDeleteAcronym, "edge_cascade_failed", err)
		}
		if err := tx.Where("acronym_id = ?", acronymID).Delete(&Acronym{}).Error; err != nil {
			s.logError(opDeleteAcronym, "delete_failed", err, zap.String("acronym_id", acronymID))
			return newServiceError(opDeleteAcronym, "delete_failed", err)
		}
		return nil
	})
}

// FindOrCreateCategory resolves a category by its case-sensitive name,
// creating it when no category with that name exists yet.
func (s *Service) FindOrCreateCategory(ctx context.Context, rawName string) (Category, error) {
	name, err := NewCategoryName(rawName)
	if err != nil {
		return Category{}, newServiceError(opCreateCategory, "invalid_name", fmt.Errorf("%w: %v", ErrBadRequest, err))
	}
	return s.findOrCreateCategory(ctx, opCreateCategory, name)
}

func (s *Service) findOrCreateCategory(ctx context.Context, operation, name string) (Category, error) {
	var category Category
	err := s.db.WithContext(ctx).Where("name = ?", name).Take(&category).Error
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logError(operation, "category_select_failed", err, zap.String("name", name))
		return Category{}, newServiceError(operation, "category_select_failed", err)
	}

	identifier, err := s.idProvider.NewID()
	if err != nil {
		s.logError(operation, "id_generation_failed", err)
		return Category{}, newServiceError(operation, "id_generation_failed", err)
	}
	category = Category{ID: identifier, Name: name}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		// A concurrent writer may have created the same name first; the
		// unique index makes that a resolvable race.
		var existing Category
		if lookupErr := s.db.WithContext(ctx).Where("name = ?", name).Take(&existing).Error; lookupErr == nil {
			return existing, nil
		}
		s.logError(operation, "category_insert_failed", err, zap.String("name", name))
		return Category{}, newServiceError(operation, "category_insert_failed", err)
	}
	return category, nil
}

// GetCategory resolves a category by identifier.
func (s *Service) GetCategory(ctx context.Context, categoryID string) (Category, error) {
	var category Category
	err := s.db.WithContext(ctx).Where("category_id = ?", categoryID).Take(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Category{}, newServiceError(opGetCategory, "category_missing", ErrNotFound)
	}
	if err != nil {
		s.logError(opGetCategory, "query_failed", err, zap.String("category_id", categoryID))
		return Category{}, newServiceError(opGetCategory, "query_failed", err)
	}
	return category, nil
}

// ListCategories returns every category in the store.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.db.WithContext(ctx).Find(&categories).Error; err != nil {
		s.logError(opListCategories, "query_failed", err)
		return nil, newServiceError(opListCategories, "query_failed", err)
	}
	return categories, nil
}

// DeleteCategory removes a category together with every association edge that
// references it. Acronyms that carried the category are otherwise untouched.
func (s *Service) DeleteCategory(ctx context.Context, categoryID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category Category
		err := tx.Where("category_id = ?", categoryID).Take(&category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newServiceError(opDeleteCategory, "category_missing", ErrNotFound)
		}
		if err != nil {
			s.logError(opDeleteCategory, "select_failed", err, zap.String("category_id", categoryID))
			return newServiceError(opDeleteCategory, "select_failed", err)
		}

		if err := tx.Where("category_id = ?", categoryID).Delete(&AcronymCategory{}).Error; err != nil {
			s.logError(opDeleteCategory, "edge_cascade_failed", err, zap.String("category_id", categoryID))
			return newServiceError(opDeleteCategory, "edge_cascade_failed", err)
		}
		if err := tx.Where("category_id = ?", categoryID).Delete(&Category{}).Error; err != nil {
			s.logError(opDeleteCategory, "delete_failed", err, zap.String("category_id", categoryID))
			return newServiceError(opDeleteCategory, "delete_failed", err)
		}
		return nil
	})
}

// AttachCategory creates the association edge between an acronym and a
// category. Attaching an already-attached pair is a no-op.
func (s *Service) AttachCategory(ctx context.Context, acronymID, categoryID string) error {
	if _, err := s.GetAcronym(ctx, acronymID); err != nil {
		return newServiceError(opAttachCategory, "acronym_missing", unwrapSentinel(err))
	}
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return newServiceError(opAttachCategory, "category_missing", unwrapSentinel(err))
	}

	var existing AcronymCategory
	err := s.db.WithContext(ctx).
		Where("acronym_id = ? AND category_id = ?", acronymID, categoryID).
		Take(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logError(opAttachCategory, "edge_select_failed", err,
			zap.String("acronym_id", acronymID), zap.String("category_id", categoryID))
		return newServiceError(opAttachCategory, "edge_select_failed", err)
	}

	identifier, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opAttachCategory, "id_generation_failed", err)
		return newServiceError(opAttachCategory, "id_generation_failed", err)
	}
	edge := AcronymCategory{ID: identifier, AcronymID: acronymID, CategoryID: categoryID}
	if err := s.db.WithContext(ctx).Create(&edge).Error; err != nil {
		// A concurrent attach for the same pair loses the unique-index race
		// but the desired edge exists, so the attach still succeeded.
		var raced AcronymCategory
		if lookupErr := s.db.WithContext(ctx).
			Where("acronym_id = ? AND category_id = ?", acronymID, categoryID).
			Take(&raced).Error; lookupErr == nil {
			return nil
		}
		s.logError(opAttachCategory, "edge_insert_failed", err,
			zap.String("acronym_id", acronymID), zap.String("category_id", categoryID))
		return newServiceError(opAttachCategory, "edge_insert_failed", err)
	}
	return nil
}

// DetachCategory deletes the association edge between an acronym and a
// category. The category entity itself is never deleted here.
func (s *Service) DetachCategory(ctx context.Context, acronymID, categoryID string) error {
	if _, err := s.GetAcronym(ctx, acronymID); err != nil {
		return newServiceError(opDetachCategory, "acronym_missing", unwrapSentinel(err))
	}
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return newServiceError(opDetachCategory, "category_missing", unwrapSentinel(err))
	}

	if err := s.db.WithContext(ctx).
		Where("acronym_id = ? AND category_id = ?", acronymID, categoryID).
		Delete(&AcronymCategory{}).Error; err != nil {
		s.logError(opDetachCategory, "edge_delete_failed", err,
			zap.String("acronym_id", acronymID), zap.String("category_id", categoryID))
		return newServiceError(opDetachCategory, "edge_delete_failed", err)
	}
	return nil
}

func (s *Service) requireOwner(ctx context.Context, operation, userID string) error {
	if userID == "" {
		return newServiceError(operation, "owner_missing", ErrNotFound)
	}
	exists, err := s.owners.UserExists(ctx, userID)
	if err != nil {
		s.logError(operation, "owner_lookup_failed", err, zap.String("user_id", userID))
		return newServiceError(operation, "owner_lookup_failed", err)
	}
	if !exists {
		return newServiceError(operation, "owner_missing", ErrNotFound)
	}
	return nil
}

// unwrapSentinel keeps the taxonomy sentinel when re-wrapping an error under a
// different operation code.
func unwrapSentinel(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrConflict):
		return ErrConflict
	case errors.Is(err, ErrBadRequest):
		return ErrBadRequest
	default:
		return err
	}
}

func (s *Service) loggerOrDefault() *zap.Logger {
	if s == nil {
		return noOpLogger
	}
	if s.logger == nil {
		return noOpLogger
	}
	return s.logger
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.loggerOrDefault().Error("catalog service error", attrs...)
}
