package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"shortlink-backend/internal/domain"
	"shortlink-backend/internal/repository"
	"shortlink-backend/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// LinksHandler обработчик для работы со ссылками
type LinksHandler struct {
	registry *service.Registry
	log      *zap.Logger
	baseURL  string
}

// NewLinksHandler создает новый обработчик ссылок
func NewLinksHandler(registry *service.Registry, log *zap.Logger, baseURL string) *LinksHandler {
	return &LinksHandler{
		registry: registry,
		log:      log,
		baseURL:  baseURL,
	}
}

// CreateLinkRequest структура запроса создания ссылки
type CreateLinkRequest struct {
	TargetURL string `json:"target_url"`
	Code      string `json:"code,omitempty"`
}

// LinkResponse — Link с готовым коротким URL
type LinkResponse struct {
	*domain.Link
	ShortURL string `json:"short_url,omitempty"`
}

// CreateLink создает новую короткую ссылку
func (h *LinksHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid create link request", zap.Error(err))
		writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	link, err := h.registry.CreateLink(r.Context(), req.TargetURL, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidURL):
			writeError(w, "Valid URL is required", http.StatusBadRequest)
		case errors.Is(err, service.ErrInvalidCode):
			writeError(w, "Code must be 6-8 alphanumeric characters", http.StatusBadRequest)
		case errors.Is(err, repository.ErrCodeExists):
			writeError(w, "Code already exists", http.StatusConflict)
		case errors.Is(err, service.ErrRetriesExhausted):
			h.log.Error("failed to generate unique code", zap.Error(err))
			writeError(w, "Failed to generate unique code", http.StatusInternalServerError)
		default:
			h.log.Error("failed to create link", zap.Error(err))
			writeError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.log.Info("created link", zap.String("code", link.Code), zap.String("target_url", link.TargetURL))
	writeJSON(w, h.toResponse(link), http.StatusCreated)
}

// ListLinks возвращает список ссылок, опционально отфильтрованный по search
func (h *LinksHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	links, err := h.registry.ListLinks(r.Context(), search)
	if err != nil {
		// Ошибку хранилища не маскируем пустым списком
		h.log.Error("failed to list links", zap.String("search", search), zap.Error(err))
		writeError(w, "Failed to retrieve links", http.StatusInternalServerError)
		return
	}

	responses := make([]*LinkResponse, len(links))
	for i, link := range links {
		responses[i] = h.toResponse(link)
	}

	writeJSON(w, responses, http.StatusOK)
}

// GetLink возвращает одну ссылку по коду
func (h *LinksHandler) GetLink(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	link, err := h.registry.GetLink(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			writeError(w, "Not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to get link", zap.String("code", code), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.toResponse(link), http.StatusOK)
}

// DeleteLink удаляет ссылку по коду
func (h *LinksHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	if err := h.registry.DeleteLink(r.Context(), code); err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			writeError(w, "Not found", http.StatusNotFound)
			return
		}
		h.log.Error("failed to delete link", zap.String("code", code), zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("deleted link", zap.String("code", code))
	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

func (h *LinksHandler) toResponse(link *domain.Link) *LinkResponse {
	return &LinkResponse{
		Link:     link,
		ShortURL: h.baseURL + "/" + link.Code,
	}
}
