package repository

import (
	"context"
	"sync"

	"product-catalog/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InMemoryProductRepository keeps products in insertion order behind a
// mutex. It follows the same id and error rules as ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []model.Product
}

func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{}
}

func clone(p model.Product) model.Product {
	reviews := make([]model.Review, len(p.Reviews))
	copy(reviews, p.Reviews)
	p.Reviews = reviews
	return p
}

func (r *InMemoryProductRepository) indexOf(id primitive.ObjectID) int {
	for i := range r.products {
		if r.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *InMemoryProductRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, clone(p))
	}
	return out, nil
}

func (r *InMemoryProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	objID, err := parseID("FindByID", id)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(objID)
	if i < 0 {
		return nil, ErrProductNotFound
	}
	p := clone(r.products[i])
	return &p, nil
}

func (r *InMemoryProductRepository) Insert(ctx context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = primitive.NewObjectID()
	product.Reviews = []model.Review{}
	r.products = append(r.products, clone(*product))
	return nil
}

func (r *InMemoryProductRepository) Save(ctx context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(product.ID)
	if i < 0 {
		return ErrProductNotFound
	}
	product.EnsureReviews()
	r.products[i] = clone(*product)
	return nil
}

func (r *InMemoryProductRepository) DeleteByID(ctx context.Context, id string) (*model.Product, error) {
	objID, err := parseID("DeleteByID", id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(objID)
	if i < 0 {
		return nil, ErrProductNotFound
	}
	deleted := r.products[i]
	r.products = append(r.products[:i], r.products[i+1:]...)
	return &deleted, nil
}
