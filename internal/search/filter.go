package search

import (
	"strings"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
)

// Stage - чистый предикат над кандидатом. Пайплайн - это И по всем
// стадиям, поэтому новые стадии (состояние товара, рейтинг продавца)
// добавляются, не трогая существующие.
type Stage func(domain.Product) bool

type Pipeline struct {
	stages []Stage
}

func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

func (p *Pipeline) Append(s Stage) *Pipeline {
	p.stages = append(p.stages, s)
	return p
}

// Apply сохраняет порядок входа; вход не мутируется.
func (p *Pipeline) Apply(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, prod := range products {
		if p.matches(prod) {
			out = append(out, prod)
		}
	}
	return out
}

func (p *Pipeline) matches(prod domain.Product) bool {
	for _, s := range p.stages {
		if !s(prod) {
			return false
		}
	}
	return true
}

// NewMatchPipeline - стандартный пайплайн запроса: точный бренд, точная
// модель, цена в бюджете и вменяемая цена.
func NewMatchPipeline(c domain.Criteria) *Pipeline {
	return NewPipeline(
		SanePrice(),
		ExactBrand(c.Brand),
		ExactModel(c.Model),
		MaxPrice(c.MaxPrice),
	)
}

// ExactBrand - строгое равенство после нормализации регистра и пробелов.
// Никакого fuzzy: "iPhone 15 Pro" не матчит "iPhone 15".
func ExactBrand(brand string) Stage {
	want := NormalizeField(brand)
	return func(p domain.Product) bool {
		return NormalizeField(p.Brand) == want
	}
}

func ExactModel(model string) Stage {
	want := NormalizeField(model)
	return func(p domain.Product) bool {
		return NormalizeField(p.Model) == want
	}
}

// MaxPrice - потолок включительно.
func MaxPrice(max float64) Stage {
	return func(p domain.Product) bool {
		return p.Price <= max
	}
}

// SanePrice отсекает нулевые и отрицательные цены - мусор извлечения.
func SanePrice() Stage {
	return func(p domain.Product) bool {
		return p.Price > 0
	}
}

// NormalizeField: трим, схлопывание внутренних пробелов, нижний регистр.
func NormalizeField(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
