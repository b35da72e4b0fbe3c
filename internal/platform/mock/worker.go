package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
	"github.com/kitbuilder587/pricehunt-bot/internal/platform"
)

type Call struct {
	Criteria domain.Criteria
	Limit    int
}

// Worker - подставной воркер площадки для тестов диспетчера и сервиса.
type Worker struct {
	Name     string
	Results  []domain.Product
	Error    error
	Delay    time.Duration
	PanicMsg string // если непустой, Search паникует

	mu        sync.Mutex
	CallCount int
	LastCall  Call
	AllCalls  []Call
}

func New(name string) *Worker {
	return &Worker{Name: name}
}

func (w *Worker) WithResults(products []domain.Product) *Worker {
	w.Results = products
	return w
}

func (w *Worker) WithError(err error) *Worker {
	w.Error = err
	return w
}

func (w *Worker) WithDelay(delay time.Duration) *Worker {
	w.Delay = delay
	return w
}

func (w *Worker) WithPanic(msg string) *Worker {
	w.PanicMsg = msg
	return w
}

func (w *Worker) Platform() string { return w.Name }

func (w *Worker) Search(ctx context.Context, c domain.Criteria, limit int) ([]domain.Product, error) {
	w.mu.Lock()
	w.CallCount++
	w.LastCall = Call{Criteria: c, Limit: limit}
	w.AllCalls = append(w.AllCalls, w.LastCall)
	delay := w.Delay
	err := w.Error
	results := w.Results
	panicMsg := w.PanicMsg
	w.mu.Unlock()

	if panicMsg != "" {
		panic(panicMsg)
	}

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

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (w *Worker) Calls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.CallCount
}

var _ platform.Worker = (*Worker)(nil)
