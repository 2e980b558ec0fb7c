package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReconcileCategories moves an acronym's category set to the desired
// case-sensitive name set with the minimal number of attach and detach
// operations. Duplicates in the desired input collapse; an empty desired set
// detaches every category. Callers that do not intend to touch categories
// simply do not call this (CreateAcronym and UpdateAcronym skip it for a nil
// category list).
//
// The attach and detach sub-operations run concurrently and each is
// idempotent, so a partially applied reconciliation is safe to retry with the
// same desired set.
func (s *Service) ReconcileCategories(ctx context.Context, acronymID string, desired []string) error {
	if _, err := s.GetAcronym(ctx, acronymID); err != nil {
		return newServiceError(opReconcile, "acronym_missing", unwrapSentinel(err))
	}

	desiredNames := make(map[string]struct{}, len(desired))
	for _, rawName := range desired {
		name, err := NewCategoryName(rawName)
		if err != nil {
			return newServiceError(opReconcile, "invalid_name", fmt.Errorf("%w: %v", ErrBadRequest, err))
		}
		desiredNames[name] = struct{}{}
	}

	current, err := s.currentCategoriesByName(ctx, acronymID)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for name := range desiredNames {
		if _, attached := current[name]; attached {
			continue
		}
		group.Go(func() error {
			category, err := s.FindOrCreateCategory(groupCtx, name)
			if err != nil {
				return err
			}
			return s.AttachCategory(groupCtx, acronymID, category.ID)
		})
	}
	for name, category := range current {
		if _, wanted := desiredNames[name]; wanted {
			continue
		}
		group.Go(func() error {
			return s.DetachCategory(groupCtx, acronymID, category.ID)
		})
	}

	if err := group.Wait(); err != nil {
		s.logError(opReconcile, "apply_failed", err, zap.String("acronym_id", acronymID))
		return newServiceError(opReconcile, "apply_failed", unwrapSentinel(err))
	}
	return nil
}

// currentCategoriesByName reads the acronym's attached categories keyed by
// their case-sensitive name.
func (s *Service) currentCategoriesByName(ctx context.Context, acronymID string) (map[string]Category, error) {
	categories, err := s.CategoriesOfAcronym(ctx, acronymID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]Category, len(categories))
	for _, category := range categories {
		byName[category.Name] = category
	}
	return byName, nil
}
