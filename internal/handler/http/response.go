package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"product-catalog/internal/logger"
)

// Fixed client-facing messages.
const (
	MsgIncompleteData = "Incomplete product data"
	MsgInternalError  = "Internal Server Error"
	MsgNotFound       = "Product not found"
	MsgDeleted        = "Product deleted"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error(ctx, "Failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func writeMessage(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeJSON(ctx, w, status, messageResponse{Message: message})
}
