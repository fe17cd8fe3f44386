package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"product-catalog/internal/logger"
	"product-catalog/internal/model"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"
	"product-catalog/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// IDParam is the route parameter holding a product id.
const IDParam = "id"

type ProductHandler struct {
	service *service.ProductService
}

type deleteResponse struct {
	Message        string         `json:"message"`
	DeletedProduct *model.Product `json:"deletedProduct"`
}

var HttpProductHandlerTracer = otel.Tracer("HttpProductHandler")

func NewProductHandler(service *service.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// Create handles POST /products.
// 201 with the stored product, 400 on incomplete input, 500 on store failure.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Create")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.Create")

	var in model.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		logger.Warn(ctx, "Unreadable product payload", slog.String("error", err.Error()))
		writeMessage(ctx, w, http.StatusBadRequest, MsgIncompleteData)
		return
	}

	product, err := h.service.Create(ctx, in)
	switch {
	case errors.Is(err, validation.ErrIncompleteData):
		logger.Warn(ctx, "Incomplete product data", slog.Any("missing", validation.MissingFields(in)))
		writeMessage(ctx, w, http.StatusBadRequest, MsgIncompleteData)
		return
	case err != nil:
		logger.Error(ctx, "Error adding product", slog.String("error", err.Error()))
		writeMessage(ctx, w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	span.SetAttributes(attribute.String("product.id", product.ID.Hex()))
	writeJSON(ctx, w, http.StatusCreated, product)
}

// List handles GET /products. Store failures are reported with the
// underlying error text.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.List")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.List")

	products, err := h.service.GetAll(ctx)
	if err != nil {
		logger.Error(ctx, "Error listing products", slog.String("error", err.Error()))
		writeMessage(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(ctx, w, http.StatusOK, products)
}

// AddReview handles POST /products/{id}/review. Every failure, a missing
// product included, is a 400 carrying the error text.
func (h *ProductHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.AddReview")
	defer span.End()

	id := chi.URLParam(r, IDParam)
	span.SetAttributes(attribute.String("product.id", id))
	logger.Info(ctx, "HttpProductHandler.AddReview", logger.ProductID(id))

	// An empty body is an empty review.
	var review model.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn(ctx, "Unreadable review payload", slog.String("error", err.Error()))
		writeMessage(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.service.AddReview(ctx, id, review)
	if err != nil {
		logger.Warn(ctx, "Error adding review", logger.ProductID(id), slog.String("error", err.Error()))
		writeMessage(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(ctx, w, http.StatusCreated, product)
}

// Delete handles DELETE /products/{id}.
// 200 with the removed product, 404 when absent, 500 on any other failure.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Delete")
	defer span.End()

	id := chi.URLParam(r, IDParam)
	span.SetAttributes(attribute.String("product.id", id))
	logger.Info(ctx, "HttpProductHandler.Delete", logger.ProductID(id))

	deleted, err := h.service.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		writeMessage(ctx, w, http.StatusNotFound, MsgNotFound)
		return
	case err != nil:
		logger.Error(ctx, "Error deleting product", logger.ProductID(id), slog.String("error", err.Error()))
		writeMessage(ctx, w, http.StatusInternalServerError, MsgInternalError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, deleteResponse{
		Message:        MsgDeleted,
		DeletedProduct: deleted,
	})
}
