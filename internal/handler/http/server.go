package http

import (
	"net/http"

	"shortlink-backend/internal/repository"
	"shortlink-backend/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server HTTP сервер с обработчиками
type Server struct {
	linksHandler    *LinksHandler
	redirectHandler *RedirectHandler
	healthHandler   *HealthHandler
	log             *zap.Logger
}

// NewServer создает новый HTTP сервер
func NewServer(
	storage repository.Storage,
	registry *service.Registry,
	resolver *service.Resolver,
	log *zap.Logger,
	baseURL string,
) *Server {
	return &Server{
		linksHandler:    NewLinksHandler(registry, log, baseURL),
		redirectHandler: NewRedirectHandler(resolver, log),
		healthHandler:   NewHealthHandler(storage, log),
		log:             log,
	}
}

// SetupRoutes настраивает маршруты
func (s *Server) SetupRoutes() http.Handler {
	router := mux.NewRouter()
	router.Use(RequestLogger(s.log))
	router.Use(CORS)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/healthz", s.healthHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/links", s.linksHandler.CreateLink).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/links", s.linksHandler.ListLinks).Methods(http.MethodGet)
	api.HandleFunc("/links/{code}", s.linksHandler.GetLink).Methods(http.MethodGet)
	api.HandleFunc("/links/{code}", s.linksHandler.DeleteLink).Methods(http.MethodDelete, http.MethodOptions)

	// Редирект регистрируется последним, чтобы не перехватывать /api/*
	router.HandleFunc("/{code}", s.redirectHandler.HandleRedirect).Methods(http.MethodGet)

	return router
}
