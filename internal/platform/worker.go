package platform

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kitbuilder587/pricehunt-bot/internal/browser"
	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
	"github.com/kitbuilder587/pricehunt-bot/internal/extract"
)

// pageWorker - общий каркас воркера: загрузить страницу выдачи,
// извлечь продукты, проставить площадку, обрезать до лимита.
// Различия между площадками - имя и построение URL поиска.
type pageWorker struct {
	name      string
	searchURL func(domain.Criteria) string
	fetcher   browser.Fetcher
	extractor extract.Extractor
	logger    *zap.Logger
}

func newPageWorker(name string, searchURL func(domain.Criteria) string, fetcher browser.Fetcher, extractor extract.Extractor, logger *zap.Logger) *pageWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &pageWorker{
		name:      name,
		searchURL: searchURL,
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger.With(zap.String("platform", name)),
	}
}

func (w *pageWorker) Platform() string { return w.name }

func (w *pageWorker) Search(ctx context.Context, c domain.Criteria, limit int) ([]domain.Product, error) {
	url := w.searchURL(c)
	w.logger.Debug("searching", zap.String("url", url))

	html, err := w.fetcher.FetchPage(ctx, url)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrNetwork, url, err)
	}

	products, err := w.extractor.Products(ctx, html, c, w.name)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	for i := range products {
		products[i].Platform = w.name
	}

	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}

	w.logger.Info("search done", zap.Int("products", len(products)))
	return products, nil
}
