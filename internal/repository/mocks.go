package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
)

type MockSessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*domain.Session

	TouchErr error
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{sessions: make(map[int64]*domain.Session)}
}

func (m *MockSessionRepository) GetOrCreate(ctx context.Context, chatID int64) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[chatID]; ok {
		return s, nil
	}

	s := &domain.Session{
		ChatID:     chatID,
		CreatedAt:  time.Now(),
		LastSeenAt: time.Now(),
	}
	m.sessions[chatID] = s
	return s, nil
}

func (m *MockSessionRepository) Touch(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.TouchErr != nil {
		return m.TouchErr
	}

	s, ok := m.sessions[chatID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.LastSeenAt = time.Now()
	s.SearchCount++
	return nil
}

func (m *MockSessionRepository) Get(chatID int64) (*domain.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[chatID]
	return s, ok
}

type MockHistoryRepository struct {
	mu      sync.RWMutex
	records []domain.SearchRecord

	AddErr error
}

func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{}
}

func (m *MockHistoryRepository) Add(ctx context.Context, rec *domain.SearchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AddErr != nil {
		return m.AddErr
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	m.records = append(m.records, *rec)
	return nil
}

func (m *MockHistoryRepository) ListByChat(ctx context.Context, chatID int64, limit int) ([]domain.SearchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.SearchRecord
	for _, r := range m.records {
		if r.ChatID == chatID {
			out = append(out, r)
		}
	}

	// свежие первыми, как в postgres-реализации
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockHistoryRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
