package repository

import (
	"context"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
)

type SessionRepository interface {
	GetOrCreate(ctx context.Context, chatID int64) (*domain.Session, error)
	// Touch обновляет last_seen и инкрементирует счётчик поисков
	Touch(ctx context.Context, chatID int64) error
}

type HistoryRepository interface {
	Add(ctx context.Context, rec *domain.SearchRecord) error
	ListByChat(ctx context.Context, chatID int64, limit int) ([]domain.SearchRecord, error)
}
