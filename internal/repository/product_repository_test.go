package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"product-catalog/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func productDoc(id primitive.ObjectID, name string, reviews bson.A) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "description", Value: name + " description"},
		{Key: "image", Value: name + ".jpg"},
		{Key: "reviews", Value: reviews},
	}
}

func namespace(mt *mtest.T) string {
	return mt.DB.Name() + "." + mt.Coll.Name()
}

func dbError() bson.D {
	return mtest.CreateCommandErrorResponse(mtest.CommandError{
		Code:    2,
		Name:    "BadValue",
		Message: "Database error",
	})
}

func TestFindAll(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns products in store order", func(mt *mtest.T) {
		id1, id2 := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			productDoc(id1, "first", bson.A{}),
			productDoc(id2, "second", bson.A{bson.D{{Key: "user", Value: "bob"}}}),
		))
		repo := NewProductRepository(mt.DB, mt.Coll.Name())

		products, err := repo.FindAll(context.Background())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 2 {
			mt.Fatalf("expected 2 products, got %d", len(products))
		}
		if products[0].ID != id1 || products[1].ID != id2 {
			mt.Errorf("unexpected order: %v, %v", products[0].ID, products[1].ID)
		}
		if products[0].Reviews == nil {
			mt.Error("expected non-nil reviews")
		}
		if len(products[1].Reviews) != 1 || products[1].Reviews[0].User != "bob" {
			mt.Errorf("unexpected reviews %#v", products[1].Reviews)
		}
	})

	mt.Run("empty collection yields empty slice", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))
		repo := NewProductRepository(mt.DB, mt.Coll.Name())

		products, err := repo.FindAll(context.Background())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if products == nil || len(products) != 0 {
			mt.Errorf("expected empty non-nil slice, got %#v", products)
		}
	})

	mt.Run("store failure is a StoreError", func(mt *mtest.T) {
		mt.AddMockResponses(dbError())
		repo := NewProductRepository(mt.DB, mt.Coll.Name())

		_, err := repo.FindAll(context.Background())

		var storeErr *StoreError
		if !errors.As(err, &storeErr) {
			mt.Fatalf("expected StoreError, got %v", err)
		}
		if !strings.Contains(err.Error(), "Database error") {
			mt.Errorf("expected driver message to be kept, got %q", err.Error())
		}
	})
}

func TestFindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			productDoc(id, "widget", bson.A{}),
		))
		repo := NewProductRepository(mt.DB, mt.Coll.Name())

		product, err := repo.FindByID(context.Background(), id.Hex())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if product.ID != id || product.Name != "widget" {
			mt.Errorf("unexpected product %#v", product)
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))
		repo := NewProductRepository(mt.DB, mt.Coll.Name())

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		if !errors.Is(err, ErrProductNotFound) {
			mt.Errorf("expected ErrProductNotFound, got %v", err)
		}
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB, mt.Coll.Name())

		_, err := repo.FindByID(context.Background(), "not-an-id")

		var storeErr *StoreError
		if !errors.As(err, &storeErr) || !errors.Is(err, ErrInvalidID) {
			mt.Errorf("expected StoreError wrapping ErrInvalidID, got %v", err)
		}
	})
}

func TestInsert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns id and empty reviews", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewProductRepository(mt.DB, mt.Coll.Name())

		p := &model.Product{Name: "Widget", Description: "A widget", Image: "w.jpg"}
		if err := repo.Insert(context.Background(), p); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if p.ID.IsZero() {
			mt.Error("expected id to be assigned")
		}
		if p.Reviews == nil || len(p.Reviews) != 0 {
			mt.Errorf("expected empty reviews, got %#v", p.Reviews)
		}
	})

	mt.Run("store failure", func(mt *mtest.T) {
		mt.AddMockResponses(dbError())
		repo := NewProductRepository(mt.DB, mt.Coll.Name())

		p := &model.Product{Name: "Widget", Description: "A widget", Image: "w.jpg"}
		err := repo.Insert(context.Background(), p)

		var storeErr *StoreError
		if !errors.As(err, &storeErr) {
			mt.Fatalf("expected StoreError, got %v", err)
		}
		if !p.ID.IsZero() {
			mt.Error("expected id to be cleared after failure")
		}
	})
}

func TestSave(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("replaces existing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		repo := NewProductRepository(mt.DB, mt.Coll.Name())

		p := &model.Product{ID: primitive.NewObjectID(), Name: "Widget"}
		if err := repo.Save(context.Background(), p); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
	})

	mt.Run("missing document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		repo := NewProductRepository(mt.DB, mt.Coll.Name())

		err := repo.Save(context.Background(), &model.Product{ID: primitive.NewObjectID()})
		if !errors.Is(err, ErrProductNotFound) {
			mt.Errorf("expected ErrProductNotFound, got %v", err)
		}
	})
}

func TestDeleteByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns snapshot", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: productDoc(id, "widget", bson.A{})},
		))
		repo := NewProductRepository(mt.DB, mt.Coll.Name())

		deleted, err := repo.DeleteByID(context.Background(), id.Hex())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if deleted.ID != id || deleted.Name != "widget" {
			mt.Errorf("unexpected snapshot %#v", deleted)
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))
		repo := NewProductRepository(mt.DB, mt.Coll.Name())

		_, err := repo.DeleteByID(context.Background(), primitive.NewObjectID().Hex())
		if !errors.Is(err, ErrProductNotFound) {
			mt.Errorf("expected ErrProductNotFound, got %v", err)
		}
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB, mt.Coll.Name())

		_, err := repo.DeleteByID(context.Background(), "invalid_id")

		var storeErr *StoreError
		if !errors.As(err, &storeErr) {
			mt.Errorf("expected StoreError, got %v", err)
		}
	})
}
