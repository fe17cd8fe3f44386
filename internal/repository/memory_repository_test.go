package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"product-catalog/internal/model"

	"golang.org/x/sync/errgroup"
)

func TestInMemory_InsertFindDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryProductRepository()

	a := &model.Product{Name: "a", Description: "a", Image: "a.jpg"}
	b := &model.Product{Name: "b", Description: "b", Image: "b.jpg"}
	if err := repo.Insert(ctx, a); err != nil {
		t.Fatalf("insert a: %v", err)
	}
	if err := repo.Insert(ctx, b); err != nil {
		t.Fatalf("insert b: %v", err)
	}

	all, _ := repo.FindAll(ctx)
	if len(all) != 2 || all[0].ID != a.ID || all[1].ID != b.ID {
		t.Fatalf("unexpected products %#v", all)
	}

	deleted, err := repo.DeleteByID(ctx, a.ID.Hex())
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Name != "a" {
		t.Errorf("unexpected snapshot %#v", deleted)
	}

	if _, err := repo.FindByID(ctx, a.ID.Hex()); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound after delete, got %v", err)
	}
	if _, err := repo.DeleteByID(ctx, a.ID.Hex()); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound on second delete, got %v", err)
	}
}

func TestInMemory_ReturnedProductsAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryProductRepository()

	p := &model.Product{Name: "a", Description: "a", Image: "a.jpg"}
	_ = repo.Insert(ctx, p)

	found, _ := repo.FindByID(ctx, p.ID.Hex())
	found.AddReview(model.Review{User: "unsaved"})

	again, _ := repo.FindByID(ctx, p.ID.Hex())
	if len(again.Reviews) != 0 {
		t.Errorf("expected stored product to be unchanged, got %#v", again.Reviews)
	}

	if err := repo.Save(ctx, found); err != nil {
		t.Fatalf("save: %v", err)
	}
	again, _ = repo.FindByID(ctx, p.ID.Hex())
	if len(again.Reviews) != 1 {
		t.Errorf("expected saved review, got %#v", again.Reviews)
	}
}

func TestInMemory_MalformedID(t *testing.T) {
	repo := NewInMemoryProductRepository()

	_, err := repo.FindByID(context.Background(), "nope")

	var storeErr *StoreError
	if !errors.As(err, &storeErr) || !errors.Is(err, ErrInvalidID) {
		t.Errorf("expected StoreError wrapping ErrInvalidID, got %v", err)
	}
}

func TestInMemory_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryProductRepository()

	const N = 50
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < N; i++ {
		i := i
		g.Go(func() error {
			return repo.Insert(ctx, &model.Product{
				Name:        fmt.Sprintf("p-%d", i),
				Description: "d",
				Image:       "i.jpg",
			})
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("insert: %v", err)
	}

	all, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != N {
		t.Fatalf("expected %d products, got %d", N, len(all))
	}
	ids := make(map[string]struct{}, N)
	for _, p := range all {
		ids[p.ID.Hex()] = struct{}{}
	}
	if len(ids) != N {
		t.Errorf("expected %d distinct ids, got %d", N, len(ids))
	}
}
