package service

import (
	"context"

	"product-catalog/internal/model"
	"product-catalog/internal/validation"

	"go.opentelemetry.io/otel"
)

// ProductStore is the persistence the catalog needs. It is satisfied by
// *repository.ProductRepository.
type ProductStore interface {
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)
	Insert(ctx context.Context, product *model.Product) error
	Save(ctx context.Context, product *model.Product) error
	DeleteByID(ctx context.Context, id string) (*model.Product, error)
}

type ProductService struct {
	repo ProductStore
}

var ProductServiceTracer = otel.Tracer("ProductService")

func NewProductService(repo ProductStore) *ProductService {
	return &ProductService{repo: repo}
}

// Create validates in and stores it as a new product with no reviews.
func (s *ProductService) Create(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Create")
	defer span.End()

	if err := validation.ValidateProductInput(in); err != nil {
		return nil, err
	}

	product := model.NewProduct(in)
	if err := s.repo.Insert(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) GetAll(ctx context.Context) ([]model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.GetAll")
	defer span.End()

	return s.repo.FindAll(ctx)
}

// AddReview appends review, unmodified, to the product's reviews and
// persists the product.
func (s *ProductService) AddReview(ctx context.Context, id string, review model.Review) (*model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.AddReview")
	defer span.End()

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.AddReview(review)
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the product and returns it as it was before removal.
func (s *ProductService) Delete(ctx context.Context, id string) (*model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Delete")
	defer span.End()

	return s.repo.DeleteByID(ctx, id)
}
