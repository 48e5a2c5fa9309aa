package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shortlink-backend/internal/repository"

	"go.uber.org/zap"
)

// Resolver превращает входящий код в целевой URL и фиксирует переход.
type Resolver struct {
	storage repository.Storage
	log     *zap.Logger
}

func NewResolver(storage repository.Storage, log *zap.Logger) *Resolver {
	return &Resolver{
		storage: storage,
		log:     log,
	}
}

// Resolve возвращает целевой URL для кода и увеличивает счетчик переходов.
// Неверный формат кода неотличим для вызывающего от отсутствующего кода —
// редиректный трафик не аутентифицирован, и детали валидации ему не нужны.
// Ошибка обновления счетчика логируется и проглатывается: сломанная
// статистика не должна мешать пользователю попасть по ссылке.
func (r *Resolver) Resolve(ctx context.Context, code string) (string, error) {
	if !ValidCode(code) {
		return "", repository.ErrCodeNotFound
	}

	link, err := r.storage.GetLink(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			return "", repository.ErrCodeNotFound
		}
		return "", fmt.Errorf("failed to resolve code: %w", err)
	}

	if err := r.storage.RegisterClick(ctx, code, time.Now()); err != nil {
		r.log.Warn("failed to register click, proceeding with redirect",
			zap.String("code", code),
			zap.Error(err))
	}

	return link.TargetURL, nil
}
