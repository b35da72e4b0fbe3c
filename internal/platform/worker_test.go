package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	browsermock "github.com/kitbuilder587/pricehunt-bot/internal/browser/mock"
	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
	"github.com/kitbuilder587/pricehunt-bot/internal/extract"
	extractmock "github.com/kitbuilder587/pricehunt-bot/internal/extract/mock"
)

var workerCriteria = domain.Criteria{Brand: "Apple", Model: "iPhone 15", MaxPrice: 6000}

func TestPageWorker_Search(t *testing.T) {
	logger := zap.NewNop()

	t.Run("fetch then extract then stamp platform", func(t *testing.T) {
		fetcher := browsermock.New().WithHTML("<html><body>listing</body></html>")
		extractor := extractmock.New().WithResults([]domain.Product{
			{Title: "iPhone 15", Price: 5999},
			{Title: "iPhone 15 red", Price: 5899, Platform: "something-else"},
		})

		w := NewJD(fetcher, extractor, logger)

		products, err := w.Search(context.Background(), workerCriteria, 10)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}

		if len(products) != 2 {
			t.Fatalf("expected 2 products, got %d", len(products))
		}
		for _, p := range products {
			if p.Platform != JD {
				t.Errorf("Platform = %q, expected %q (worker must stamp its own platform)", p.Platform, JD)
			}
		}
		if extractor.LastCall.Platform != JD {
			t.Errorf("extractor got platform %q, expected %q", extractor.LastCall.Platform, JD)
		}
		if !strings.Contains(extractor.LastCall.HTML, "listing") {
			t.Error("extractor should receive the fetched page")
		}
	})

	t.Run("builds encoded search url", func(t *testing.T) {
		fetcher := browsermock.New().WithHTML("<html></html>")
		extractor := extractmock.New()

		w := NewJD(fetcher, extractor, logger)

		if _, err := w.Search(context.Background(), workerCriteria, 10); err != nil {
			t.Fatalf("Search() error = %v", err)
		}

		if !strings.HasPrefix(fetcher.LastURL, "https://search.jd.com/Search?keyword=") {
			t.Errorf("url = %q, expected jd search url", fetcher.LastURL)
		}
		if !strings.Contains(fetcher.LastURL, "Apple+iPhone+15") {
			t.Errorf("url = %q, expected escaped query", fetcher.LastURL)
		}
	})

	t.Run("caps results to limit", func(t *testing.T) {
		extractor := extractmock.New().WithResults([]domain.Product{
			{Title: "a", Price: 1}, {Title: "b", Price: 2}, {Title: "c", Price: 3},
		})
		w := NewTaobao(browsermock.New().WithHTML("<html></html>"), extractor, logger)

		products, err := w.Search(context.Background(), workerCriteria, 2)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(products) != 2 {
			t.Errorf("expected 2 products after limit, got %d", len(products))
		}
	})

	t.Run("fetch failure is a network failure", func(t *testing.T) {
		fetcher := browsermock.New().WithError(errors.New("connection refused"))
		w := NewPDD(fetcher, extractmock.New(), logger)

		_, err := w.Search(context.Background(), workerCriteria, 10)

		if !errors.Is(err, ErrNetwork) {
			t.Errorf("error = %v, expected ErrNetwork", err)
		}
		if ClassifyFailure(err) != domain.FailureNetwork {
			t.Errorf("classified as %q, expected network", ClassifyFailure(err))
		}
	})

	t.Run("extraction failure keeps its class", func(t *testing.T) {
		extractor := extractmock.New().WithError(extract.ErrBadResponse)
		w := NewJD(browsermock.New().WithHTML("<html></html>"), extractor, logger)

		_, err := w.Search(context.Background(), workerCriteria, 10)

		if !errors.Is(err, ErrExtraction) {
			t.Errorf("error = %v, expected ErrExtraction", err)
		}
		if ClassifyFailure(err) != domain.FailureExtraction {
			t.Errorf("classified as %q, expected extraction", ClassifyFailure(err))
		}
	})

	t.Run("context deadline passes through unwrapped", func(t *testing.T) {
		fetcher := browsermock.New().WithDelay(time.Second)
		w := NewJD(fetcher, extractmock.New(), logger)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := w.Search(ctx, workerCriteria, 10)

		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("error = %v, expected raw DeadlineExceeded", err)
		}
		if ClassifyFailure(err) != domain.FailureTimeout {
			t.Errorf("classified as %q, expected timeout", ClassifyFailure(err))
		}
	})
}

func TestRegistry(t *testing.T) {
	fetcher := browsermock.New().WithHTML("<html></html>")
	extractor := extractmock.New()
	logger := zap.NewNop()

	t.Run("all workers registered", func(t *testing.T) {
		r := NewAllWorkers(fetcher, extractor, logger)

		names := r.Platforms()
		want := []string{"jd", "pdd", "taobao"} // сортированный порядок
		if len(names) != len(want) {
			t.Fatalf("Platforms() = %v, expected %v", names, want)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("Platforms()[%d] = %q, expected %q", i, names[i], want[i])
			}
		}
	})

	t.Run("get known platform", func(t *testing.T) {
		r := NewAllWorkers(fetcher, extractor, logger)

		w, err := r.Get("taobao")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if w.Platform() != "taobao" {
			t.Errorf("Platform() = %q, expected taobao", w.Platform())
		}
	})

	t.Run("get unknown platform", func(t *testing.T) {
		r := NewAllWorkers(fetcher, extractor, logger)

		_, err := r.Get("amazon")
		if !errors.Is(err, domain.ErrUnknownPlatform) {
			t.Errorf("Get() error = %v, expected ErrUnknownPlatform", err)
		}
		if !strings.Contains(err.Error(), "amazon") {
			t.Errorf("error %q should name the platform", err.Error())
		}
	})

	t.Run("has", func(t *testing.T) {
		r := NewAllWorkers(fetcher, extractor, logger)
		if !r.Has("jd") {
			t.Error("Has(jd) = false")
		}
		if r.Has("ebay") {
			t.Error("Has(ebay) = true")
		}
	})
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.FailureKind
	}{
		{"deadline", context.DeadlineExceeded, domain.FailureTimeout},
		{"wrapped deadline", fmt.Errorf("wrap: %w", context.DeadlineExceeded), domain.FailureTimeout},
		{"network", ErrNetwork, domain.FailureNetwork},
		{"extraction", ErrExtraction, domain.FailureExtraction},
		{"anything else", errors.New("boom"), domain.FailureWorker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyFailure(tt.err); got != tt.want {
				t.Errorf("ClassifyFailure() = %q, expected %q", got, tt.want)
			}
		})
	}
}
