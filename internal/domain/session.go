package domain

import "time"

// Session - состояние чата: когда видели, сколько искали.
// Ключ - telegram chat id, отдельного суррогатного id нет.
type Session struct {
	ChatID      int64
	CreatedAt   time.Time
	LastSeenAt  time.Time
	SearchCount int
}

// SearchRecord - запись истории поиска. Пишется best-effort после каждого
// завершённого поиска; ошибки записи не влияют на результат.
type SearchRecord struct {
	ID             string
	ChatID         int64
	Brand          string
	Model          string
	MaxPrice       float64
	Mode           ExecutionMode
	TotalFound     int
	AfterFiltering int
	Successful     []string
	Failed         []string
	BestPrice      *float64
	CreatedAt      time.Time
}
