package cache

import (
	"time"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
)

// Cache хранит готовые результаты поиска по хэшу запроса: одинаковый
// запрос в пределах TTL не гоняет площадки заново.
type Cache interface {
	Get(key string) (*domain.SearchResult, bool)
	Set(key string, value *domain.SearchResult, ttl time.Duration)
	Delete(key string)
}
