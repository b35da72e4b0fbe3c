package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
	"github.com/kitbuilder587/pricehunt-bot/internal/llm"
	"github.com/kitbuilder587/pricehunt-bot/internal/metrics"
)

const defaultMaxChars = 50000

const systemPrompt = `Ты извлекаешь товары из текста страницы выдачи китайского маркетплейса.
Верни строго JSON-массив объектов с полями:
title (строка), price (число, юани), brand (строка), model (строка),
url (строка, может быть пустой), shop (строка, может быть пустой),
confidence (число 0..1).

Правила:
1. Только товары, точно совпадающие по бренду и модели. Похожие не брать.
2. Цену и url не выдумывать. Нет цены - не включать товар.
3. Не уверен в поле - оставь его пустым.
Никакого текста кроме JSON-массива.`

type LLMConfig struct {
	MaxChars int
	Metrics  *metrics.Metrics
}

// LLMExtractor - реализация поверх llm.Client: чистим HTML до текста,
// просим модель вернуть строгий JSON, валидируем каждую запись.
type LLMExtractor struct {
	client   llm.Client
	maxChars int
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewLLMExtractor(client llm.Client, cfg LLMConfig, logger *zap.Logger) *LLMExtractor {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = defaultMaxChars
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMExtractor{
		client:   client,
		maxChars: cfg.MaxChars,
		logger:   logger,
		metrics:  cfg.Metrics,
	}
}

type rawProduct struct {
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Brand      string  `json:"brand"`
	Model      string  `json:"model"`
	URL        string  `json:"url"`
	Shop       string  `json:"shop"`
	Confidence float64 `json:"confidence"`
}

func (e *LLMExtractor) Products(ctx context.Context, html string, c domain.Criteria, platform string) ([]domain.Product, error) {
	if strings.TrimSpace(html) == "" {
		return nil, ErrEmptyPage
	}

	text := CleanHTML(html, e.maxChars)

	prompt := fmt.Sprintf(
		"Площадка: %s\nБренд: %s\nМодель: %s\nМаксимальная цена: %.2f\n\nТекст страницы:\n%s",
		platform, c.Brand, c.Model, c.MaxPrice, text,
	)

	start := time.Now()
	raw, err := e.client.CompleteWithSystem(ctx, systemPrompt, prompt)
	if e.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		e.metrics.RecordLLMRequest(status, time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("llm extraction: %w", err)
	}

	items, err := parseProducts(raw)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(items))
	for _, it := range items {
		// записи без цены или заголовка бесполезны для сравнения цен
		if it.Price <= 0 || strings.TrimSpace(it.Title) == "" {
			e.logger.Debug("dropping incomplete record",
				zap.String("platform", platform),
				zap.String("title", it.Title),
			)
			continue
		}
		products = append(products, domain.Product{
			Title:      strings.TrimSpace(it.Title),
			Price:      it.Price,
			Brand:      strings.TrimSpace(it.Brand),
			Model:      strings.TrimSpace(it.Model),
			Platform:   platform,
			Shop:       strings.TrimSpace(it.Shop),
			URL:        strings.TrimSpace(it.URL),
			Confidence: it.Confidence,
		})
	}

	return products, nil
}

// parseProducts терпит обёртку из ```json ... ``` - модели любят её добавлять
func parseProducts(raw string) ([]rawProduct, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	// если вокруг массива есть пояснительный текст, вырезаем сам массив
	if !strings.HasPrefix(s, "[") {
		start := strings.Index(s, "[")
		end := strings.LastIndex(s, "]")
		if start == -1 || end == -1 || end < start {
			return nil, fmt.Errorf("%w: no json array found", ErrBadResponse)
		}
		s = s[start : end+1]
	}

	var items []rawProduct
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return items, nil
}

// CleanHTML выкидывает скрипты и вёрстку, оставляя текст с переносами.
// Результат ограничен maxChars, чтобы влезть в контекст модели.
func CleanHTML(html string, maxChars int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		if len(html) > maxChars {
			return html[:maxChars]
		}
		return html
	}

	doc.Find("script, style, noscript, iframe, svg").Remove()

	var sb strings.Builder
	doc.Find("body *").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() > 0 {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	})

	text := sb.String()
	if text == "" {
		text = strings.TrimSpace(doc.Text())
	}
	if len(text) > maxChars {
		text = text[:maxChars]
	}
	return text
}

var _ Extractor = (*LLMExtractor)(nil)
