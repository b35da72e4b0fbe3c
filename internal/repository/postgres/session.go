package postgres

import (
	"context"
	"fmt"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
)

type SessionRepo struct {
	db *DB
}

func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) GetOrCreate(ctx context.Context, chatID int64) (*domain.Session, error) {
	query := `
        INSERT INTO sessions (chat_id)
        VALUES ($1)
        ON CONFLICT (chat_id) DO UPDATE SET last_seen_at = NOW()
        RETURNING chat_id, created_at, last_seen_at, search_count
    `

	var s domain.Session
	err := r.db.Pool.QueryRow(ctx, query, chatID).Scan(
		&s.ChatID,
		&s.CreatedAt,
		&s.LastSeenAt,
		&s.SearchCount,
	)
	if err != nil {
		return nil, fmt.Errorf("get or create session: %w", err)
	}

	return &s, nil
}

func (r *SessionRepo) Touch(ctx context.Context, chatID int64) error {
	query := `
        UPDATE sessions
        SET last_seen_at = NOW(), search_count = search_count + 1
        WHERE chat_id = $1
    `

	result, err := r.db.Pool.Exec(ctx, query, chatID)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}
