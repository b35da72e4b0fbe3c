package domain

import "time"

type FailureKind string

const (
	FailureTimeout    FailureKind = "timeout"
	FailureNetwork    FailureKind = "network"
	FailureExtraction FailureKind = "extraction"
	FailureWorker     FailureKind = "worker"
)

// Outcome - терминальный результат одного воркера: либо продукты, либо
// классифицированная ошибка. Ровно один Outcome на запрошенную платформу.
type Outcome struct {
	Platform string
	Products []Product
	Err      error
	Kind     FailureKind // пустой при успехе
	Elapsed  time.Duration
}

func (o Outcome) OK() bool { return o.Err == nil }

// Aggregated - объединённый и дедуплицированный набор кандидатов.
// Products упорядочены по порядку платформ в запросе, внутри платформы -
// в порядке выдачи воркера.
type Aggregated struct {
	Products  []Product
	Outcomes  map[string]Outcome
	Platforms []string // порядок из запроса
}

// Stats - ценовая статистика по непустому набору.
type Stats struct {
	Count   int
	Min     float64
	Max     float64
	Average float64
	Median  float64
}

// PriceAnalysis считается только по отфильтрованному набору.
// Global == nil означает "нет данных", а не нулевые цены.
type PriceAnalysis struct {
	Count      int
	Global     *Stats
	ByPlatform map[string]*Stats
}

type FailedPlatform struct {
	Platform string
	Reason   string
}

type Summary struct {
	TotalFound     int
	AfterFiltering int
	Query          string
	MaxPrice       float64
	Successful     []string
	Failed         []FailedPlatform
}

type SearchStatus string

const (
	StatusSuccess SearchStatus = "success"
	StatusError   SearchStatus = "error"
)

type SearchResult struct {
	Status    SearchStatus
	Criteria  SearchRequest
	Products  []Product // после фильтрации
	BestDeals []Product
	Analysis  PriceAnalysis
	Summary   Summary
	Elapsed   time.Duration
}

// BestPrice - минимальная цена среди лучших предложений, nil если пусто.
func (r *SearchResult) BestPrice() *float64 {
	if len(r.BestDeals) == 0 {
		return nil
	}
	p := r.BestDeals[0].Price
	return &p
}
