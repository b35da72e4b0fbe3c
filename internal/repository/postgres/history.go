package postgres

import (
	"context"
	"fmt"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
)

type HistoryRepo struct {
	db *DB
}

func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Add(ctx context.Context, rec *domain.SearchRecord) error {
	query := `
        INSERT INTO search_history
            (id, chat_id, brand, model, max_price, mode,
             total_found, after_filtering, successful, failed, best_price)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING created_at
    `

	err := r.db.Pool.QueryRow(ctx, query,
		rec.ID,
		rec.ChatID,
		rec.Brand,
		rec.Model,
		rec.MaxPrice,
		string(rec.Mode),
		rec.TotalFound,
		rec.AfterFiltering,
		rec.Successful,
		rec.Failed,
		rec.BestPrice,
	).Scan(&rec.CreatedAt)

	if err != nil {
		return fmt.Errorf("add search record: %w", err)
	}

	return nil
}

func (r *HistoryRepo) ListByChat(ctx context.Context, chatID int64, limit int) ([]domain.SearchRecord, error) {
	query := `
        SELECT id, chat_id, brand, model, max_price, mode,
               total_found, after_filtering, successful, failed, best_price, created_at
        FROM search_history
        WHERE chat_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `

	rows, err := r.db.Pool.Query(ctx, query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}
	defer rows.Close()

	var records []domain.SearchRecord
	for rows.Next() {
		var rec domain.SearchRecord
		var mode string
		err := rows.Scan(
			&rec.ID,
			&rec.ChatID,
			&rec.Brand,
			&rec.Model,
			&rec.MaxPrice,
			&mode,
			&rec.TotalFound,
			&rec.AfterFiltering,
			&rec.Successful,
			&rec.Failed,
			&rec.BestPrice,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan search record: %w", err)
		}
		rec.Mode = domain.ExecutionMode(mode)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search records: %w", err)
	}

	return records, nil
}
