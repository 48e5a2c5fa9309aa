package http

import (
	"context"
	"net/http"
	"time"

	"shortlink-backend/internal/repository"

	"go.uber.org/zap"
)

// HealthHandler обработчик health checks
type HealthHandler struct {
	storage repository.Storage
	log     *zap.Logger
}

// NewHealthHandler создает новый health handler
func NewHealthHandler(storage repository.Storage, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		log:     log,
	}
}

// HealthResponse структура ответа health check
type HealthResponse struct {
	OK        bool       `json:"ok"`
	Status    string     `json:"status"`
	Database  string     `json:"database"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Version   string     `json:"version"`
}

// Health проверяет доступность хранилища и возвращает его часы
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	now, err := h.storage.Now(ctx)
	if err != nil {
		h.log.Error("database health check failed", zap.Error(err))
		writeJSON(w, HealthResponse{
			OK:       false,
			Status:   "unhealthy",
			Database: "disconnected",
			Version:  "1.0.0",
		}, http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, HealthResponse{
		OK:        true,
		Status:    "healthy",
		Database:  "connected",
		Timestamp: &now,
		Version:   "1.0.0",
	}, http.StatusOK)
}
