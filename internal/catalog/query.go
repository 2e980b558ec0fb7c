package catalog

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListAcronyms returns the full acronym collection in store order.
func (s *Service) ListAcronyms(ctx context.Context) ([]Acronym, error) {
	var acronyms []Acronym
	if err := s.db.WithContext(ctx).Find(&acronyms).Error; err != nil {
		s.logError(opListAcronyms, "query_failed", err)
		return nil, newServiceError(opListAcronyms, "query_failed", err)
	}
	return acronyms, nil
}

// SearchAcronyms returns every acronym whose short or long form equals the
// term exactly. The term is required; exact match means no substring or
// case-folding semantics.
func (s *Service) SearchAcronyms(ctx context.Context, term string) ([]Acronym, error) {
	if strings.TrimSpace(term) == "" {
		return nil, newServiceError(opSearchAcronyms, "missing_term", ErrBadRequest)
	}

	var acronyms []Acronym
	if err := s.db.WithContext(ctx).
		Where("short = ? OR long = ?", term, term).
		Find(&acronyms).Error; err != nil {
		s.logError(opSearchAcronyms, "query_failed", err, zap.String("term", term))
		return nil, newServiceError(opSearchAcronyms, "query_failed", err)
	}
	return acronyms, nil
}

// FirstAcronym returns an arbitrary single acronym from the collection.
func (s *Service) FirstAcronym(ctx context.Context) (Acronym, error) {
	var acronym Acronym
	err := s.db.WithContext(ctx).Take(&acronym).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Acronym{}, newServiceError(opFirstAcronym, "collection_empty", ErrNotFound)
	}
	if err != nil {
		s.logError(opFirstAcronym, "query_failed", err)
		return Acronym{}, newServiceError(opFirstAcronym, "query_failed", err)
	}
	return acronym, nil
}

// SortedAcronyms returns the full collection ordered by short form ascending.
// Ties on the short form break on the identifier so the ordering is
// reproducible across calls.
func (s *Service) SortedAcronyms(ctx context.Context) ([]Acronym, error) {
	var acronyms []Acronym
	if err := s.db.WithContext(ctx).
		Order("short ASC, acronym_id ASC").
		Find(&acronyms).Error; err != nil {
		s.logError(opSortedAcronyms, "query_failed", err)
		return nil, newServiceError(opSortedAcronyms, "query_failed", err)
	}
	return acronyms, nil
}

// CategoriesOfAcronym resolves the categories attached to an acronym by
// traversing its association edges.
func (s *Service) CategoriesOfAcronym(ctx context.Context, acronymID string) ([]Category, error) {
	var acronym Acronym
	err := s.db.WithContext(ctx).Where("acronym_id = ?", acronymID).Take(&acronym).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newServiceError(opCategoriesOf, "acronym_missing", ErrNotFound)
	}
	if err != nil {
		s.logError(opCategoriesOf, "select_failed", err, zap.String("acronym_id", acronymID))
		return nil, newServiceError(opCategoriesOf, "select_failed", err)
	}

	var categories []Category
	if err := s.db.WithContext(ctx).
		Joins("JOIN acronym_categories ON acronym_categories.category_id = categories.category_id").
		Where("acronym_categories.acronym_id = ?", acronymID).
		Find(&categories).Error; err != nil {
		s.logError(opCategoriesOf, "query_failed", err, zap.String("acronym_id", acronymID))
		return nil, newServiceError(opCategoriesOf, "query_failed", err)
	}
	return categories, nil
}

// AcronymsOfCategory resolves the acronyms tagged with a category by
// traversing its association edges.
func (s *Service) AcronymsOfCategory(ctx context.Context, categoryID string) ([]Acronym, error) {
	var category Category
	err := s.db.WithContext(ctx).Where("category_id = ?", categoryID).Take(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newServiceError(opAcronymsOf, "category_missing", ErrNotFound)
	}
	if err != nil {
		s.logError(opAcronymsOf, "select_failed", err, zap.String("category_id", categoryID))
		return nil, newServiceError(opAcronymsOf, "select_failed", err)
	}

	var acronyms []Acronym
	if err := s.db.WithContext(ctx).
		Joins("JOIN acronym_categories ON acronym_categories.acronym_id = acronyms.acronym_id").
		Where("acronym_categories.category_id = ?", categoryID).
		Find(&acronyms).Error; err != nil {
		s.logError(opAcronymsOf, "query_failed", err, zap.String("category_id", categoryID))
		return nil, newServiceError(opAcronymsOf, "query_failed", err)
	}
	return acronyms, nil
}

// AcronymsOfUser lists an owner's acronyms.
func (s *Service) AcronymsOfUser(ctx context.Context, userID string) ([]Acronym, error) {
	var acronyms []Acronym
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&acronyms).Error; err != nil {
		s.logError(opAcronymsOfUser, "query_failed", err, zap.String("user_id", userID))
		return nil, newServiceError(opAcronymsOfUser, "query_failed", err)
	}
	return acronyms, nil
}
