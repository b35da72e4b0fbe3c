package search

import (
	"sort"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
)

const DefaultTopDeals = 5

// AnalyzePrices считает статистику только по отфильтрованному набору -
// она должна отражать то, что увидит пользователь, а не отброшенных
// кандидатов. Пустой вход - это Count 0 и nil вместо нулей.
func AnalyzePrices(products []domain.Product) domain.PriceAnalysis {
	analysis := domain.PriceAnalysis{
		ByPlatform: make(map[string]*domain.Stats),
	}
	if len(products) == 0 {
		return analysis
	}

	prices := make([]float64, len(products))
	byPlatform := make(map[string][]float64)
	for i, p := range products {
		prices[i] = p.Price
		byPlatform[p.Platform] = append(byPlatform[p.Platform], p.Price)
	}

	analysis.Count = len(prices)
	analysis.Global = computeStats(prices)
	for name, ps := range byPlatform {
		analysis.ByPlatform[name] = computeStats(ps)
	}

	return analysis
}

func computeStats(prices []float64) *domain.Stats {
	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	sum := 0.0
	for _, p := range sorted {
		sum += p
	}

	n := len(sorted)
	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return &domain.Stats{
		Count:   n,
		Min:     sorted[0],
		Max:     sorted[n-1],
		Average: sum / float64(n),
		Median:  median,
	}
}

// BestDeals - k самых дешёвых. Сортировка стабильная: при равной цене
// сохраняется исходный порядок, выдача воспроизводима.
func BestDeals(products []domain.Product, k int) []domain.Product {
	if k <= 0 {
		k = DefaultTopDeals
	}
	if len(products) == 0 {
		return nil
	}

	sorted := make([]domain.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price < sorted[j].Price
	})

	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}
