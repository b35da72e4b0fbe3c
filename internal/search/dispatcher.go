package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
	"github.com/kitbuilder587/pricehunt-bot/internal/metrics"
	"github.com/kitbuilder587/pricehunt-bot/internal/platform"
)

type DispatcherConfig struct {
	WorkerTimeout time.Duration // на один воркер
}

// Dispatcher запускает воркеров запрошенных площадок параллельно или
// последовательно и собирает ровно один Outcome на площадку. Отказ
// одного воркера никогда не роняет остальных и не выходит наружу.
type Dispatcher struct {
	registry *platform.Registry
	timeout  time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewDispatcher(registry *platform.Registry, cfg DispatcherConfig, logger *zap.Logger, m *metrics.Metrics) *Dispatcher {
	if cfg.WorkerTimeout == 0 {
		cfg.WorkerTimeout = 2 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		registry: registry,
		timeout:  cfg.WorkerTimeout,
		logger:   logger,
		metrics:  m,
	}
}

// Dispatch возвращает ошибку только до запуска воркеров: если какая-то из
// запрошенных площадок не зарегистрирована. Дальше любые отказы воркеров
// оседают в Outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, req *domain.SearchRequest) (map[string]domain.Outcome, error) {
	workers := make([]platform.Worker, 0, len(req.Platforms))
	for _, name := range req.Platforms {
		w, err := d.registry.Get(name)
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}

	d.logger.Info("dispatching search",
		zap.Strings("platforms", req.Platforms),
		zap.String("mode", req.Mode.String()),
	)

	outcomes := make([]domain.Outcome, len(workers))

	if req.Mode == domain.ModeSequential {
		for i, w := range workers {
			outcomes[i] = d.runOne(ctx, w, req.Criteria, req.MaxPerPlatform)
		}
	} else {
		var wg sync.WaitGroup
		for i, w := range workers {
			wg.Add(1)
			go func(i int, w platform.Worker) {
				defer wg.Done()
				outcomes[i] = d.runOne(ctx, w, req.Criteria, req.MaxPerPlatform)
			}(i, w)
		}
		wg.Wait()
	}

	result := make(map[string]domain.Outcome, len(outcomes))
	for _, o := range outcomes {
		result[o.Platform] = o
	}
	return result, nil
}

// runOne выполняет один воркер с индивидуальным таймаутом.
// Паника воркера превращается в Outcome с FailureWorker.
func (d *Dispatcher) runOne(ctx context.Context, w platform.Worker, c domain.Criteria, limit int) (out domain.Outcome) {
	start := time.Now()
	name := w.Platform()
	out.Platform = name

	defer func() {
		out.Elapsed = time.Since(start)
		if r := recover(); r != nil {
			out.Products = nil
			out.Err = fmt.Errorf("worker panic: %v", r)
			out.Kind = domain.FailureWorker
			d.logger.Error("worker panicked",
				zap.String("platform", name),
				zap.Any("panic", r),
			)
		}
		d.observe(out)
	}()

	workerCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	products, err := w.Search(workerCtx, c, limit)
	if err != nil {
		out.Err = err
		out.Kind = platform.ClassifyFailure(err)
		d.logger.Warn("worker failed",
			zap.String("platform", name),
			zap.String("kind", string(out.Kind)),
			zap.Error(err),
		)
		return out
	}

	out.Products = products
	return out
}

func (d *Dispatcher) observe(o domain.Outcome) {
	if d.metrics == nil {
		return
	}
	status := "ok"
	if !o.OK() {
		status = string(o.Kind)
	}
	d.metrics.RecordPlatformRequest(o.Platform, status, o.Elapsed)
}
