package repository

import (
	"context"
	"errors"
	"log/slog"

	"product-catalog/internal/logger"
	"product-catalog/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ProductRepository struct {
	collection *mongo.Collection
}

var ProductRepositoryTracer = otel.Tracer("ProductRepository")

func NewProductRepository(db *mongo.Database, collection string) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection(collection),
	}
}

func parseID(op, id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, invalidID(op, id)
	}
	return objID, nil
}

func fail(ctx context.Context, span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	logger.Error(ctx, "Repository failure", slog.String("op", op), slog.String("error", err.Error()))
	return storeErr(op, err)
}

// FindAll returns every product in natural collection order. An empty
// collection yields an empty, non-nil slice.
func (r *ProductRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()
	logger.Info(ctx, "Repository")

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fail(ctx, span, "FindAll", err)
	}
	defer cursor.Close(ctx)

	products := make([]model.Product, 0)
	for cursor.Next(ctx) {
		var product model.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, fail(ctx, span, "FindAll", err)
		}
		product.EnsureReviews()
		products = append(products, product)
	}
	if err := cursor.Err(); err != nil {
		return nil, fail(ctx, span, "FindAll", err)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()
	logger.Info(ctx, "Repository", logger.ProductID(id))

	objID, err := parseID("FindByID", id)
	if err != nil {
		return nil, err
	}

	var product model.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fail(ctx, span, "FindByID", err)
	}
	product.EnsureReviews()
	return &product, nil
}

// Insert stores product under a fresh id with an empty review list and
// writes the id back into product.
func (r *ProductRepository) Insert(ctx context.Context, product *model.Product) error {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Insert")
	defer span.End()
	logger.Info(ctx, "Repository")

	product.ID = primitive.NewObjectID()
	product.Reviews = []model.Review{}
	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		product.ID = primitive.NilObjectID
		return fail(ctx, span, "Insert", err)
	}
	span.SetAttributes(attribute.String("product.id", product.ID.Hex()))
	return nil
}

// Save replaces the stored document with product.
func (r *ProductRepository) Save(ctx context.Context, product *model.Product) error {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Save")
	defer span.End()
	logger.Info(ctx, "Repository", logger.ProductID(product.ID.Hex()))

	product.EnsureReviews()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fail(ctx, span, "Save", err)
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteByID removes the product and returns the document as it was
// before deletion.
func (r *ProductRepository) DeleteByID(ctx context.Context, id string) (*model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.DeleteByID")
	defer span.End()
	logger.Info(ctx, "Repository", logger.ProductID(id))

	objID, err := parseID("DeleteByID", id)
	if err != nil {
		return nil, err
	}

	var product model.Product
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": objID}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fail(ctx, span, "DeleteByID", err)
	}
	product.EnsureReviews()
	return &product, nil
}
