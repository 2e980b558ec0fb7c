package catalog

import (
	"context"
	"errors"
	"testing"
)

func TestReconcileAttachesInitialCategories(t *testing.T) {
	service := newTestService(t, newStaticOwnerDirectory(testOwnerID))

	created := mustCreateAcronym(t, service, "LOL", "Laugh Out Loud", testOwnerID, []string{"Humor", "Chat"})
	assertCategorySet(t, service, created.ID, []string{"Humor", "Chat"})
}

func TestReconcileWithCurrentSetIsNoOp(t *testing.T) {
	service := newTestService(t, newStaticOwnerDirectory(testOwnerID))
	ctx := context.Background()

	created := mustCreateAcronym(t, service, "LOL", "Laugh Out Loud", testOwnerID, []string{"Humor", "Chat"})

	before, err := service.CategoriesOfAcronym(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to list categories: %v", err)
	}

	if err := service.ReconcileCategories(ctx, created.ID, []string{"Humor", "Chat"}); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	after, err := service.CategoriesOfAcronym(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to list categories: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("expected unchanged category count, got %d then %d", len(before), len(after))
	}
	beforeIDs := make(map[string]struct{}, len(before))
	for _, category := range before {
		beforeIDs[category.ID] = struct{}{}
	}
	for _, category := range after {
		if _, present := beforeIDs[category.ID]; !present {
			t.Fatalf("expected edge reuse, found new category id %q", category.ID)
		}
	}
}

func TestReconcileConvergesRegardlessOfIntermediateState(t *testing.T) {
	service := newTestService(t, newStaticOwnerDirectory(testOwnerID))
	ctx := context.Background()

	viaIntermediate := mustCreateAcronym(t, service, "BRB", "Be Right Back", testOwnerID, nil)
	direct := mustCreateAcronym(t, service, "TTYL", "Talk To You Later", testOwnerID, nil)

	desiredFirst := []string{"Humor", "Chat"}
	desiredFinal := []string{"Chat", "Abbreviation"}

	if err := service.ReconcileCategories(ctx, viaIntermediate.ID, desiredFirst); err != nil {
		t.Fatalf("first reconcile failed: %v", err)
	}
	if err := service.ReconcileCategories(ctx, viaIntermediate.ID, desiredFinal); err != nil {
		t.Fatalf("second reconcile failed: %v", err)
	}
	if err := service.ReconcileCategories(ctx, direct.ID, desiredFinal); err != nil {
		t.Fatalf("direct reconcile failed: %v", err)
	}

	assertCategorySet(t, service, viaIntermediate.ID, desiredFinal)
	assertCategorySet(t, service, direct.ID, desiredFinal)
}

func TestReconcileEmptySetDetachesEverything(t *testing.T) {
	service := newTestService(t, newStaticOwnerDirectory(testOwnerID))
	ctx := context.Background()

	created := mustCreateAcronym(t, service, "LOL", "Laugh Out Loud", testOwnerID, []string{"Humor", "Chat", "Slang"})

	if err := service.ReconcileCategories(ctx, created.ID, []string{}); err != nil {
		t.Fatalf("reconcile to empty set failed: %v", err)
	}

	assertCategorySet(t, service, created.ID, nil)

	// The categories themselves are never deleted by reconciliation.
	categories, err := service.ListCategories(ctx)
	if err != nil {
		t.Fatalf("failed to list categories: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("expected detached categories to survive, got %d", len(categories))
	}
}

func TestReconcileCollapsesDuplicateInput(t *testing.T) {
	service := newTestService(t, newStaticOwnerDirectory(testOwnerID))
	ctx := context.Background()

	created := mustCreateAcronym(t, service, "LOL", "Laugh Out Loud", testOwnerID, nil)

	if err := service.ReconcileCategories(ctx, created.ID, []string{"Humor", "Humor", "Humor"}); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	assertCategorySet(t, service, created.ID, []string{"Humor"})

	categories, err := service.ListCategories(ctx)
	if err != nil {
		t.Fatalf("failed to list categories: %v", err)
	}
	if len(categories) != 1 {
		t.Fatalf("expected duplicate names to collapse, got %d categories", len(categories))
	}
}

func TestReconcileRetryAfterSuccessIsStable(t *testing.T) {
	service := newTestService(t, newStaticOwnerDirectory(testOwnerID))
	ctx := context.Background()

	created := mustCreateAcronym(t, service, "LOL", "Laugh Out Loud", testOwnerID, nil)

	desired := []string{"Humor", "Chat"}
	if err := service.ReconcileCategories(ctx, created.ID, desired); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if err := service.ReconcileCategories(ctx, created.ID, desired); err != nil {
		t.Fatalf("reconcile retry failed: %v", err)
	}

	assertCategorySet(t, service, created.ID, desired)
}

func TestReconcileUnknownAcronymReturnsNotFound(t *testing.T) {
	service := newTestService(t, newStaticOwnerDirectory(testOwnerID))

	err := service.ReconcileCategories(context.Background(), "unknown", []string{"Humor"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestReconcileRejectsBlankCategoryName(t *testing.T) {
	service := newTestService(t, newStaticOwnerDirectory(testOwnerID))

	created := mustCreateAcronym(t, service, "LOL", "Laugh Out Loud", testOwnerID, nil)

	err := service.ReconcileCategories(context.Background(), created.ID, []string{"  "})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected bad-request for blank name, got %v", err)
	}
}
