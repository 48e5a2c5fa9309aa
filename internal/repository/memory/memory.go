package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"shortlink-backend/internal/domain"
	"shortlink-backend/internal/repository"
)

// MemStorage — потокобезопасное in-memory хранилище для тестов.
type MemStorage struct {
	mu          sync.RWMutex
	links       map[string]*domain.Link
	linkCounter int64
}

func New() *MemStorage {
	return &MemStorage{
		links: make(map[string]*domain.Link),
	}
}

func (s *MemStorage) SaveLink(_ context.Context, link *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.links[link.Code]; exists {
		return repository.ErrCodeExists
	}

	s.linkCounter++
	link.ID = s.linkCounter
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}

	stored := *link
	s.links[link.Code] = &stored
	return nil
}

func (s *MemStorage) GetLink(_ context.Context, code string) (*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[code]
	if !ok {
		return nil, repository.ErrCodeNotFound
	}

	cp := *link
	return &cp, nil
}

func (s *MemStorage) ListLinks(_ context.Context, search string) ([]*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := make([]*domain.Link, 0, len(s.links))
	term := strings.ToLower(search)
	for _, link := range s.links {
		if term != "" &&
			!strings.Contains(strings.ToLower(link.Code), term) &&
			!strings.Contains(strings.ToLower(link.TargetURL), term) {
			continue
		}
		cp := *link
		links = append(links, &cp)
	}

	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})

	return links, nil
}

func (s *MemStorage) DeleteLink(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.links[code]; !ok {
		return repository.ErrCodeNotFound
	}
	delete(s.links, code)
	return nil
}

func (s *MemStorage) RegisterClick(_ context.Context, code string, clickedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[code]
	if !ok {
		return repository.ErrCodeNotFound
	}

	link.TotalClicks++
	link.LastClicked = &clickedAt
	return nil
}

func (s *MemStorage) Now(_ context.Context) (time.Time, error) {
	return time.Now(), nil
}
