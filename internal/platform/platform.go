package platform

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
)

// Классифицированные отказы воркера. Всё, что не подходит ни под один
// из них (включая панику), диспетчер считает FailureWorker.
var (
	ErrNetwork    = errors.New("network failure")
	ErrExtraction = errors.New("extraction failure")
)

// Worker ищет товары на одной площадке. Реализация обязана уважать ctx:
// таймаут на воркера выставляет диспетчер.
type Worker interface {
	Platform() string
	Search(ctx context.Context, c domain.Criteria, limit int) ([]domain.Product, error)
}

// Registry - отображение id площадки -> воркер. Диспетчеру всё равно,
// сколько площадок и какие они.
type Registry struct {
	workers map[string]Worker
}

func NewRegistry(workers ...Worker) *Registry {
	r := &Registry{workers: make(map[string]Worker, len(workers))}
	for _, w := range workers {
		r.workers[w.Platform()] = w
	}
	return r
}

func (r *Registry) Register(w Worker) {
	r.workers[w.Platform()] = w
}

func (r *Registry) Get(platform string) (Worker, error) {
	w, ok := r.workers[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownPlatform, platform)
	}
	return w, nil
}

func (r *Registry) Has(platform string) bool {
	_, ok := r.workers[platform]
	return ok
}

func (r *Registry) Platforms() []string {
	names := make([]string, 0, len(r.workers))
	for name := range r.workers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClassifyFailure сводит ошибку воркера к виду отказа из domain.
func ClassifyFailure(err error) domain.FailureKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.FailureTimeout
	case errors.Is(err, ErrNetwork):
		return domain.FailureNetwork
	case errors.Is(err, ErrExtraction):
		return domain.FailureExtraction
	default:
		return domain.FailureWorker
	}
}
