package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"shortlink-backend/internal/config"
	"shortlink-backend/internal/domain"
	"shortlink-backend/internal/repository"
	"shortlink-backend/pkg/random"
)

const maxRetries = 5

var (
	ErrInvalidURL       = errors.New("invalid target url")
	ErrInvalidCode      = errors.New("code must be 6-8 alphanumeric characters")
	ErrRetriesExhausted = errors.New("failed to generate unique code")
)

// codeRe — формат кода: 6-8 символов [A-Za-z0-9]
var codeRe = regexp.MustCompile(`^[A-Za-z0-9]{6,8}$`)

// ValidCode сообщает, соответствует ли строка формату кода ссылки
func ValidCode(code string) bool {
	return codeRe.MatchString(code)
}

// Registry управляет жизненным циклом ссылок: создание, чтение, удаление.
type Registry struct {
	storage repository.Storage
	config  *config.URLShortener
}

func NewRegistry(storage repository.Storage, cfg *config.URLShortener) *Registry {
	return &Registry{
		storage: storage,
		config:  cfg,
	}
}

// CreateLink создает ссылку с запрошенным или сгенерированным кодом.
// Уникальность кода отдается на откуп constraint'у хранилища: вставляем
// напрямую и трактуем ErrCodeExists как конфликт, без предварительной
// проверки существования (она проиграла бы гонку двух create).
func (r *Registry) CreateLink(ctx context.Context, targetURL, requestedCode string) (*domain.Link, error) {
	if err := validateTargetURL(targetURL); err != nil {
		return nil, err
	}

	if requestedCode != "" {
		if !ValidCode(requestedCode) {
			return nil, ErrInvalidCode
		}

		link := &domain.Link{Code: requestedCode, TargetURL: targetURL}
		if err := r.storage.SaveLink(ctx, link); err != nil {
			if errors.Is(err, repository.ErrCodeExists) {
				return nil, repository.ErrCodeExists
			}
			return nil, fmt.Errorf("failed to save link: %w", err)
		}
		return link, nil
	}

	// Случайный код: повторяем генерацию при коллизии. Пять неудач подряд
	// на пространстве 62^6 означают системную проблему, а не невезение.
	for attempt := 0; attempt < maxRetries; attempt++ {
		link := &domain.Link{
			Code:      random.NewRandomString(r.config.CodeLength),
			TargetURL: targetURL,
		}

		err := r.storage.SaveLink(ctx, link)
		if err == nil {
			return link, nil
		}
		if errors.Is(err, repository.ErrCodeExists) {
			continue
		}
		return nil, fmt.Errorf("failed to save link: %w", err)
	}

	return nil, ErrRetriesExhausted
}

// GetLink возвращает ссылку по точному коду
func (r *Registry) GetLink(ctx context.Context, code string) (*domain.Link, error) {
	return r.storage.GetLink(ctx, code)
}

// ListLinks возвращает все ссылки либо результат поиска. Срез всегда
// не nil; ошибка хранилища возвращается рядом, а не маскируется пустым
// результатом.
func (r *Registry) ListLinks(ctx context.Context, search string) ([]*domain.Link, error) {
	links, err := r.storage.ListLinks(ctx, search)
	if links == nil {
		links = make([]*domain.Link, 0)
	}
	if err != nil {
		return links, fmt.Errorf("failed to list links: %w", err)
	}
	return links, nil
}

// DeleteLink удаляет ссылку; повторное удаление возвращает ErrCodeNotFound
func (r *Registry) DeleteLink(ctx context.Context, code string) error {
	return r.storage.DeleteLink(ctx, code)
}

// validateTargetURL проверяет, что строка — абсолютный URL со схемой и хостом
func validateTargetURL(raw string) error {
	if raw == "" {
		return ErrInvalidURL
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}
