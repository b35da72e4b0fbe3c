package chrome

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/kitbuilder587/pricehunt-bot/internal/browser"
)

type Config struct {
	Headless    bool
	Slots       int64 // максимум одновременных вкладок на весь процесс
	NavTimeout  time.Duration
	ScrollCount int
	UserAgent   string
}

// Fetcher - chromedp-бэкенд. Слоты ограничивают вкладки глобально:
// лишние воркеры ждут в Acquire, а не падают.
type Fetcher struct {
	opts        []chromedp.ExecAllocatorOption
	slots       *semaphore.Weighted
	navTimeout  time.Duration
	scrollCount int
	logger      *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Fetcher {
	if cfg.Slots <= 0 {
		cfg.Slots = 3
	}
	if cfg.NavTimeout == 0 {
		cfg.NavTimeout = 60 * time.Second
	}
	if cfg.ScrollCount == 0 {
		cfg.ScrollCount = 2
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("accept-language", "zh-CN,zh;q=0.9,en;q=0.8"),
	)
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}

	return &Fetcher{
		opts:        opts,
		slots:       semaphore.NewWeighted(cfg.Slots),
		navTimeout:  cfg.NavTimeout,
		scrollCount: cfg.ScrollCount,
		logger:      logger,
	}
}

func (f *Fetcher) FetchPage(ctx context.Context, url string) (string, error) {
	if err := f.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer f.slots.Release(1)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, f.opts...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	taskCtx, timeoutCancel := context.WithTimeout(taskCtx, f.navTimeout)
	defer timeoutCancel()

	f.logger.Debug("fetching page", zap.String("url", url))

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitVisible("body"),
		// выдаём себя за обычный браузер
		chromedp.Evaluate(`
			Object.defineProperty(navigator, 'webdriver', {
				get: () => undefined,
			});
		`, nil),
		chromedp.Sleep(3 * time.Second),
	}

	// скроллим, чтобы подгрузился ленивый контент
	for i := 0; i < f.scrollCount; i++ {
		actions = append(actions,
			chromedp.Evaluate(`window.scrollBy(0, window.innerHeight)`, nil),
			chromedp.Sleep(time.Second),
		)
	}

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(taskCtx, actions...); err != nil {
		// не затираем причину отмены родительского контекста
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %s: %v", browser.ErrNavigation, url, err)
	}

	if html == "" {
		return "", fmt.Errorf("%w: %s", browser.ErrEmptyPage, url)
	}

	return html, nil
}

var _ browser.Fetcher = (*Fetcher)(nil)
