package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/pricehunt-bot/internal/cache"
	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
	"github.com/kitbuilder587/pricehunt-bot/internal/metrics"
	"github.com/kitbuilder587/pricehunt-bot/internal/repository"
	"github.com/kitbuilder587/pricehunt-bot/internal/search"
)

// Dispatcher - то, что сервису нужно от диспетчера.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *domain.SearchRequest) (map[string]domain.Outcome, error)
}

type SearchService interface {
	Search(ctx context.Context, chatID int64, req *domain.SearchRequest) (*domain.SearchResult, error)
}

type SearchConfig struct {
	TopDeals int
	CacheTTL time.Duration
}

type SearchServiceDeps struct {
	Dispatcher Dispatcher
	Sessions   repository.SessionRepository
	History    repository.HistoryRepository
	Cache      cache.Cache
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	Config     SearchConfig
}

type searchService struct {
	dispatcher Dispatcher
	sessions   repository.SessionRepository
	history    repository.HistoryRepository
	cache      cache.Cache
	logger     *zap.Logger
	metrics    *metrics.Metrics
	config     SearchConfig
}

func NewSearchService(deps SearchServiceDeps) SearchService {
	if deps.Config.TopDeals == 0 {
		deps.Config.TopDeals = search.DefaultTopDeals
	}
	if deps.Config.CacheTTL == 0 {
		deps.Config.CacheTTL = 15 * time.Minute
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &searchService{
		dispatcher: deps.Dispatcher,
		sessions:   deps.Sessions,
		history:    deps.History,
		cache:      deps.Cache,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		config:     deps.Config,
	}
}

// Search прогоняет полный конвейер: dispatch -> aggregate -> filter ->
// analyze -> best deals -> summary. Ошибка возвращается только для
// ошибок конфигурации до запуска воркеров (невалидный запрос, незнакомая
// площадка). Ноль успешных площадок - это всё ещё успешный результат с
// пустой выдачей и заполненным Failed: "ничего не нашли" и "система
// сломалась" различаются статусом, а не пустотой списка.
func (s *searchService) Search(ctx context.Context, chatID int64, req *domain.SearchRequest) (*domain.SearchResult, error) {
	start := time.Now()

	if s.metrics != nil {
		s.metrics.IncSearchesInFlight()
		defer s.metrics.DecSearchesInFlight()
	}

	req.Sanitize()
	if err := req.Validate(); err != nil {
		s.recordSearchMetric(req.Mode, "validation_error", start)
		return nil, err
	}

	cacheKey := requestHash(req)
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			if s.metrics != nil {
				s.metrics.RecordCacheHit()
			}
			s.logger.Info("search served from cache",
				zap.Int64("chat_id", chatID),
				zap.String("query", req.Query()),
			)
			return cached, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss()
		}
	}

	s.logger.Info("starting search",
		zap.Int64("chat_id", chatID),
		zap.String("brand", req.Brand),
		zap.String("model", req.Model),
		zap.Float64("max_price", req.MaxPrice),
		zap.Strings("platforms", req.Platforms),
		zap.String("mode", req.Mode.String()),
	)

	outcomes, err := s.dispatcher.Dispatch(ctx, req)
	if err != nil {
		// сюда попадают только ошибки конфигурации: ни один воркер ещё не бежал
		s.recordSearchMetric(req.Mode, "config_error", start)
		return nil, err
	}

	aggregated := search.Aggregate(req.Platforms, outcomes)
	filtered := search.NewMatchPipeline(req.Criteria).Apply(aggregated.Products)

	result := &domain.SearchResult{
		Status:    domain.StatusSuccess,
		Criteria:  *req,
		Products:  filtered,
		BestDeals: search.BestDeals(filtered, s.config.TopDeals),
		Analysis:  search.AnalyzePrices(filtered),
		Summary:   buildSummary(req, aggregated, len(filtered)),
		Elapsed:   time.Since(start),
	}

	s.logger.Info("search completed",
		zap.Int64("chat_id", chatID),
		zap.Int("total_found", result.Summary.TotalFound),
		zap.Int("after_filtering", result.Summary.AfterFiltering),
		zap.Int("failed_platforms", len(result.Summary.Failed)),
		zap.Duration("elapsed", result.Elapsed),
	)

	if s.cache != nil {
		s.cache.Set(cacheKey, result, s.config.CacheTTL)
	}
	s.recordSearchMetric(req.Mode, "success", start)

	// история пишется best-effort: её отказ не трогает результат
	go s.recordHistory(chatID, result)

	return result, nil
}

func buildSummary(req *domain.SearchRequest, agg domain.Aggregated, filtered int) domain.Summary {
	summary := domain.Summary{
		TotalFound:     len(agg.Products),
		AfterFiltering: filtered,
		Query:          req.Query(),
		MaxPrice:       req.MaxPrice,
	}

	for _, name := range agg.Platforms {
		o, ok := agg.Outcomes[name]
		if !ok {
			continue
		}
		if o.OK() {
			summary.Successful = append(summary.Successful, name)
		} else {
			summary.Failed = append(summary.Failed, domain.FailedPlatform{
				Platform: name,
				Reason:   string(o.Kind),
			})
		}
	}

	return summary
}

func (s *searchService) recordHistory(chatID int64, result *domain.SearchResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := s.sessions.GetOrCreate(ctx, chatID); err != nil {
		s.logger.Warn("failed to ensure session", zap.Error(err), zap.Int64("chat_id", chatID))
		return
	}
	if err := s.sessions.Touch(ctx, chatID); err != nil {
		s.logger.Warn("failed to touch session", zap.Error(err), zap.Int64("chat_id", chatID))
	}

	failed := make([]string, 0, len(result.Summary.Failed))
	for _, f := range result.Summary.Failed {
		failed = append(failed, f.Platform)
	}

	rec := &domain.SearchRecord{
		ID:             uuid.NewString(),
		ChatID:         chatID,
		Brand:          result.Criteria.Brand,
		Model:          result.Criteria.Model,
		MaxPrice:       result.Criteria.MaxPrice,
		Mode:           result.Criteria.Mode,
		TotalFound:     result.Summary.TotalFound,
		AfterFiltering: result.Summary.AfterFiltering,
		Successful:     result.Summary.Successful,
		Failed:         failed,
		BestPrice:      result.BestPrice(),
	}

	if err := s.history.Add(ctx, rec); err != nil {
		s.logger.Warn("failed to record search history",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

func (s *searchService) recordSearchMetric(mode domain.ExecutionMode, status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordSearch(mode.String(), status, time.Since(start))
	}
}

func requestHash(req *domain.SearchRequest) string {
	h := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%.2f|%s|%d|%s",
		search.NormalizeField(req.Brand),
		search.NormalizeField(req.Model),
		req.MaxPrice,
		strings.Join(req.Platforms, ","),
		req.MaxPerPlatform,
		req.Mode,
	))
	return hex.EncodeToString(h[:])
}
