package search

import "github.com/kitbuilder587/pricehunt-bot/internal/domain"

// Aggregate склеивает выдачу успешных воркеров в порядке площадок из
// запроса и дедуплицирует по IdentityKey: выигрывает первое вхождение,
// последующие дубли (в том числе с других площадок) молча отбрасываются.
// Полный провал всех площадок - это пустой результат, не ошибка.
func Aggregate(platforms []string, outcomes map[string]domain.Outcome) domain.Aggregated {
	agg := domain.Aggregated{
		Outcomes:  outcomes,
		Platforms: platforms,
	}

	seen := make(map[string]struct{})
	for _, name := range platforms {
		o, ok := outcomes[name]
		if !ok || !o.OK() {
			continue
		}
		for _, p := range o.Products {
			key := p.IdentityKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			agg.Products = append(agg.Products, p)
		}
	}

	return agg
}
