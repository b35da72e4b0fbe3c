package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
	"github.com/kitbuilder587/pricehunt-bot/internal/repository"
)

type SessionService interface {
	GetOrCreate(ctx context.Context, chatID int64) (*domain.Session, error)
	History(ctx context.Context, chatID int64, limit int) ([]domain.SearchRecord, error)
}

type sessionService struct {
	sessions repository.SessionRepository
	history  repository.HistoryRepository
	logger   *zap.Logger
}

func NewSessionService(sessions repository.SessionRepository, history repository.HistoryRepository, logger *zap.Logger) SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sessionService{
		sessions: sessions,
		history:  history,
		logger:   logger,
	}
}

func (s *sessionService) GetOrCreate(ctx context.Context, chatID int64) (*domain.Session, error) {
	session, err := s.sessions.GetOrCreate(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) History(ctx context.Context, chatID int64, limit int) ([]domain.SearchRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.history.ListByChat(ctx, chatID, limit)
}
