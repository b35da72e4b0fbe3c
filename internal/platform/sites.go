package platform

import (
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/kitbuilder587/pricehunt-bot/internal/browser"
	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
	"github.com/kitbuilder587/pricehunt-bot/internal/extract"
)

const (
	JD     = "jd"
	Taobao = "taobao"
	PDD    = "pdd"
)

func NewJD(fetcher browser.Fetcher, extractor extract.Extractor, logger *zap.Logger) Worker {
	return newPageWorker(JD, func(c domain.Criteria) string {
		return fmt.Sprintf("https://search.jd.com/Search?keyword=%s&enc=utf-8", url.QueryEscape(c.Query()))
	}, fetcher, extractor, logger)
}

func NewTaobao(fetcher browser.Fetcher, extractor extract.Extractor, logger *zap.Logger) Worker {
	return newPageWorker(Taobao, func(c domain.Criteria) string {
		return fmt.Sprintf("https://s.taobao.com/search?q=%s", url.QueryEscape(c.Query()))
	}, fetcher, extractor, logger)
}

func NewPDD(fetcher browser.Fetcher, extractor extract.Extractor, logger *zap.Logger) Worker {
	return newPageWorker(PDD, func(c domain.Criteria) string {
		return fmt.Sprintf("https://mobile.yangkeduo.com/search_result.html?search_key=%s", url.QueryEscape(c.Query()))
	}, fetcher, extractor, logger)
}

// NewAllWorkers собирает реестр со всеми поддерживаемыми площадками.
func NewAllWorkers(fetcher browser.Fetcher, extractor extract.Extractor, logger *zap.Logger) *Registry {
	return NewRegistry(
		NewJD(fetcher, extractor, logger),
		NewTaobao(fetcher, extractor, logger),
		NewPDD(fetcher, extractor, logger),
	)
}
