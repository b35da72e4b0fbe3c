package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
	"github.com/kitbuilder587/pricehunt-bot/internal/extract"
)

type Call struct {
	HTML     string
	Criteria domain.Criteria
	Platform string
}

type Extractor struct {
	Results    []domain.Product
	ByPlatform map[string][]domain.Product
	Error      error
	Delay      time.Duration

	mu        sync.Mutex
	CallCount int
	LastCall  Call
	AllCalls  []Call
}

func New() *Extractor {
	return &Extractor{ByPlatform: make(map[string][]domain.Product)}
}

func (e *Extractor) WithResults(products []domain.Product) *Extractor {
	e.Results = products
	return e
}

func (e *Extractor) WithPlatformResults(platform string, products []domain.Product) *Extractor {
	e.ByPlatform[platform] = products
	return e
}

func (e *Extractor) WithError(err error) *Extractor {
	e.Error = err
	return e
}

func (e *Extractor) WithDelay(delay time.Duration) *Extractor {
	e.Delay = delay
	return e
}

func (e *Extractor) Products(ctx context.Context, html string, c domain.Criteria, platform string) ([]domain.Product, error) {
	e.mu.Lock()
	e.CallCount++
	e.LastCall = Call{HTML: html, Criteria: c, Platform: platform}
	e.AllCalls = append(e.AllCalls, e.LastCall)
	delay := e.Delay
	err := e.Error
	results, ok := e.ByPlatform[platform]
	if !ok {
		results = e.Results
	}
	e.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Extractor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.CallCount = 0
	e.LastCall = Call{}
	e.AllCalls = nil
}

var _ extract.Extractor = (*Extractor)(nil)
