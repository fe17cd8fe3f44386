package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"product-catalog/internal/model"
)

// APIError is a non-success response from the catalog API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog api: %d %s", e.StatusCode, e.Message)
}

type messageBody struct {
	Message string `json:"message"`
}

// DeleteResult is the body of a successful delete.
type DeleteResult struct {
	Message        string        `json:"message"`
	DeletedProduct model.Product `json:"deletedProduct"`
}

// CatalogClient calls the product catalog routes mounted under prefix.
type CatalogClient struct {
	http   *HTTPClient
	prefix string
}

func NewCatalogClient(baseURL, prefix string, timeout time.Duration) *CatalogClient {
	c := NewHTTPClient(baseURL, timeout)
	c.SetDefaultHeader("Accept", "application/json")
	return &CatalogClient{http: c, prefix: prefix}
}

func (c *CatalogClient) path(parts ...string) string {
	p := c.prefix + "/products"
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

// call decodes a success body into out, or returns an *APIError when the
// status differs from want.
func (c *CatalogClient) call(ctx context.Context, method, path string, body any, want int, out any) error {
	resp, err := c.http.Do(RequestOptions{Method: method, URL: path, Body: body, Context: ctx}, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != want {
		var msg messageBody
		_ = json.Unmarshal(resp.RawBody, &msg)
		return &APIError{StatusCode: resp.StatusCode, Message: msg.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.RawBody, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *CatalogClient) CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	var p model.Product
	if err := c.call(ctx, http.MethodPost, c.path(), in, http.StatusCreated, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *CatalogClient) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.call(ctx, http.MethodGet, c.path(), nil, http.StatusOK, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *CatalogClient) AddReview(ctx context.Context, id string, review model.Review) (*model.Product, error) {
	var p model.Product
	if err := c.call(ctx, http.MethodPost, c.path(id, "review"), review, http.StatusCreated, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *CatalogClient) DeleteProduct(ctx context.Context, id string) (*DeleteResult, error) {
	var res DeleteResult
	if err := c.call(ctx, http.MethodDelete, c.path(id), nil, http.StatusOK, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
