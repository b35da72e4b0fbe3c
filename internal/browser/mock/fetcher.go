package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/pricehunt-bot/internal/browser"
)

type Fetcher struct {
	Pages map[string]string // url -> html
	HTML  string            // выдача для любого url, если Pages пуст
	Error error
	Delay time.Duration

	mu        sync.Mutex
	CallCount int
	LastURL   string
	AllURLs   []string
}

func New() *Fetcher {
	return &Fetcher{Pages: make(map[string]string)}
}

func (f *Fetcher) WithHTML(html string) *Fetcher {
	f.HTML = html
	return f
}

func (f *Fetcher) WithPage(url, html string) *Fetcher {
	f.Pages[url] = html
	return f
}

func (f *Fetcher) WithError(err error) *Fetcher {
	f.Error = err
	return f
}

func (f *Fetcher) WithDelay(delay time.Duration) *Fetcher {
	f.Delay = delay
	return f
}

func (f *Fetcher) FetchPage(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.CallCount++
	f.LastURL = url
	f.AllURLs = append(f.AllURLs, url)
	delay := f.Delay
	err := f.Error
	html, ok := f.Pages[url]
	if !ok {
		html = f.HTML
	}
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return "", err
	}
	return html, nil
}

var _ browser.Fetcher = (*Fetcher)(nil)
