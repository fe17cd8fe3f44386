package http

import (
	"net/http"

	"product-catalog/internal/logger"
	"product-catalog/internal/service"

	"go.opentelemetry.io/otel"
)

type HealthHandler struct {
	service *service.HealthService
}

type healthResponse struct {
	Status string            `json:"status"`
	Data   map[string]string `json:"data"`
}

var HttpHealthHandlerTracer = otel.Tracer("HttpHealthHandler")

func NewHealthHandler(service *service.HealthService) *HealthHandler {
	return &HealthHandler{
		service: service,
	}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpHealthHandlerTracer.Start(r.Context(), "HttpHealthHandler.Check")
	defer span.End()
	logger.Info(ctx, "HttpHealthHandler.Check")

	status := h.service.Check(ctx)

	code := http.StatusOK
	overall := service.StatusUp
	if !status.Healthy() {
		code = http.StatusInternalServerError
		overall = service.StatusDown
	}

	writeJSON(ctx, w, code, healthResponse{
		Status: overall,
		Data:   map[string]string{"mongodb": status.Mongo},
	})
}
