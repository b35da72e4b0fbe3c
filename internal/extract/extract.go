package extract

import (
	"context"
	"errors"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
)

var (
	ErrBadResponse = errors.New("extractor returned malformed response")
	ErrEmptyPage   = errors.New("page content is empty")
)

// Extractor превращает сырой HTML выдачи площадки в структурированные
// продукты. Поля, в которых нет уверенности, остаются пустыми; цену и URL
// выдумывать нельзя - записи без цены отбрасываются.
type Extractor interface {
	Products(ctx context.Context, html string, c domain.Criteria, platform string) ([]domain.Product, error)
}
