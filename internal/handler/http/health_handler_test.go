package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"product-catalog/internal/service"

	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context, *readpref.ReadPref) error { return s.err }

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantState  string
	}{
		{"up", nil, http.StatusOK, "UP"},
		{"down", errors.New("server selection timeout"), http.StatusInternalServerError, "DOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(service.NewHealthService(stubPinger{err: tt.pingErr}))

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			w := httptest.NewRecorder()
			h.Check(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}

			var resp healthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantState || resp.Data["mongodb"] != tt.wantState {
				t.Errorf("unexpected body %+v", resp)
			}
		})
	}
}
