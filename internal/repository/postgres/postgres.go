package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shortlink-backend/internal/domain"
	"shortlink-backend/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostgresStorage реализует интерфейс Storage для PostgreSQL
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New создает новый экземпляр PostgreSQL storage
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// SaveLink сохраняет новую ссылку. Конфликт по уникальному коду приходит
// от constraint базы (TranslateError) и транслируется в ErrCodeExists.
func (s *PostgresStorage) SaveLink(ctx context.Context, link *domain.Link) error {
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrCodeExists
		}
		s.log.Error("failed to save link", zap.String("code", link.Code), zap.Error(err))
		return fmt.Errorf("failed to save link: %w", err)
	}

	s.log.Info("saved new link", zap.String("code", link.Code), zap.Int64("id", link.ID))
	return nil
}

// GetLink получает ссылку по коду
func (s *PostgresStorage) GetLink(ctx context.Context, code string) (*domain.Link, error) {
	var link domain.Link

	err := s.db.WithContext(ctx).Where("code = ?", code).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrCodeNotFound
	}
	if err != nil {
		s.log.Error("failed to get link", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return &link, nil
}

// ListLinks возвращает все ссылки либо результат поиска по подстроке.
// Поиск регистронезависимый, по коду и целевому URL (ILIKE '%term%').
func (s *PostgresStorage) ListLinks(ctx context.Context, search string) ([]*domain.Link, error) {
	links := make([]*domain.Link, 0)

	query := s.db.WithContext(ctx).Model(&domain.Link{}).Order("created_at DESC")
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("code ILIKE ? OR target_url ILIKE ?", pattern, pattern)
	}

	if err := query.Find(&links).Error; err != nil {
		s.log.Error("failed to list links", zap.String("search", search), zap.Error(err))
		return links, fmt.Errorf("failed to list links: %w", err)
	}

	return links, nil
}

// DeleteLink удаляет ссылку (жесткое удаление)
func (s *PostgresStorage) DeleteLink(ctx context.Context, code string) error {
	result := s.db.WithContext(ctx).Where("code = ?", code).Delete(&domain.Link{})
	if result.Error != nil {
		s.log.Error("failed to delete link", zap.String("code", code), zap.Error(result.Error))
		return fmt.Errorf("failed to delete link: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return repository.ErrCodeNotFound
	}

	s.log.Info("deleted link", zap.String("code", code))
	return nil
}

// RegisterClick атомарно увеличивает счетчик и обновляет last_clicked
// одним UPDATE, чтобы конкурентные переходы не теряли обновления.
func (s *PostgresStorage) RegisterClick(ctx context.Context, code string, clickedAt time.Time) error {
	result := s.db.WithContext(ctx).Model(&domain.Link{}).
		Where("code = ?", code).
		Updates(map[string]interface{}{
			"total_clicks": gorm.Expr("total_clicks + 1"),
			"last_clicked": clickedAt,
		})
	if result.Error != nil {
		s.log.Error("failed to register click", zap.String("code", code), zap.Error(result.Error))
		return fmt.Errorf("failed to register click: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return repository.ErrCodeNotFound
	}

	return nil
}

// Now возвращает текущее время базы данных
func (s *PostgresStorage) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := s.db.WithContext(ctx).Raw("SELECT NOW()").Scan(&now).Error; err != nil {
		s.log.Error("failed to get database time", zap.Error(err))
		return time.Time{}, fmt.Errorf("failed to get database time: %w", err)
	}
	return now, nil
}
