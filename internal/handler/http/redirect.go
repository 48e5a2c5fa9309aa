package http

import (
	"errors"
	"net/http"

	"shortlink-backend/internal/repository"
	"shortlink-backend/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// RedirectHandler обработчик редиректов
type RedirectHandler struct {
	resolver *service.Resolver
	log      *zap.Logger
}

// NewRedirectHandler создает новый обработчик редиректов
func NewRedirectHandler(resolver *service.Resolver, log *zap.Logger) *RedirectHandler {
	return &RedirectHandler{
		resolver: resolver,
		log:      log,
	}
}

// HandleRedirect обрабатывает переход по коду: 302 на целевой URL
func (h *RedirectHandler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	targetURL, err := h.resolver.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			h.log.Debug("code not found", zap.String("code", code))
			http.NotFound(w, r)
			return
		}
		h.log.Error("failed to process redirect", zap.String("code", code), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("successful redirect",
		zap.String("code", code),
		zap.String("target_url", targetURL))

	// 302, а не 301: браузер не должен навечно закешировать назначение
	http.Redirect(w, r, targetURL, http.StatusFound)
}
