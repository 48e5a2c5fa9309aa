package repository

import (
	"context"
	"errors"
	"time"

	"shortlink-backend/internal/domain"
)

var (
	ErrCodeNotFound = errors.New("code not found")
	ErrCodeExists   = errors.New("code already exists")
)

// Storage описывает контракт хранилища ссылок. Уникальность кода
// гарантируется самим хранилищем, а не прикладной логикой.
type Storage interface {
	// SaveLink сохраняет новую ссылку; при конфликте кода возвращает ErrCodeExists.
	SaveLink(ctx context.Context, link *domain.Link) error
	// GetLink возвращает ссылку по точному коду или ErrCodeNotFound.
	GetLink(ctx context.Context, code string) (*domain.Link, error)
	// ListLinks возвращает ссылки по убыванию created_at. Непустой search —
	// регистронезависимый поиск подстроки по code и target_url.
	// Срез никогда не nil, даже при ошибке.
	ListLinks(ctx context.Context, search string) ([]*domain.Link, error)
	// DeleteLink удаляет строку; если строки не было — ErrCodeNotFound.
	DeleteLink(ctx context.Context, code string) error
	// RegisterClick атомарно увеличивает total_clicks на 1 и выставляет
	// last_clicked одним запросом; если кода нет — ErrCodeNotFound.
	RegisterClick(ctx context.Context, code string, clickedAt time.Time) error
	// Now возвращает текущее время по часам хранилища (для health check).
	Now(ctx context.Context) (time.Time, error)
}
