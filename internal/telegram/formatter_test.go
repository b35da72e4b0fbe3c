package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
)

func sampleResult() *domain.SearchResult {
	return &domain.SearchResult{
		Status: domain.StatusSuccess,
		BestDeals: []domain.Product{
			{Title: "Apple iPhone 15 128GB", Price: 5300, Platform: "pdd", Shop: "Official", URL: "https://mobile.yangkeduo.com/goods.html?id=1"},
			{Title: "Apple iPhone 15 256GB", Price: 5800, Platform: "jd"},
		},
		Analysis: domain.PriceAnalysis{
			Count: 2,
			Global: &domain.Stats{
				Count: 2, Min: 5300, Max: 5800, Average: 5550, Median: 5550,
			},
		},
		Summary: domain.Summary{
			TotalFound:     6,
			AfterFiltering: 2,
			Query:          "Apple iPhone 15",
			MaxPrice:       6000,
			Successful:     []string{"jd", "pdd"},
			Failed: []domain.FailedPlatform{
				{Platform: "taobao", Reason: "timeout"},
			},
		},
		Elapsed: 42 * time.Second,
	}
}

func TestFormatSearchResult(t *testing.T) {
	t.Run("full result", func(t *testing.T) {
		out := FormatSearchResult(sampleResult())

		for _, want := range []string{
			"Apple iPhone 15",
			"¥6000.00",
			"Найдено: 6",
			"после фильтра: 2",
			"jd, pdd",
			"taobao (timeout)",
			"¥5300.00",
			"от ¥5300.00 до ¥5800.00",
			"медиана ¥5550.00",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q\n%s", want, out)
			}
		}
	})

	t.Run("deals are numbered cheapest first", func(t *testing.T) {
		out := FormatSearchResult(sampleResult())

		first := strings.Index(out, "1. ¥5300.00")
		second := strings.Index(out, "2. ¥5800.00")
		if first == -1 || second == -1 || first > second {
			t.Errorf("deals should be numbered in price order:\n%s", out)
		}
	})

	t.Run("escapes html in titles", func(t *testing.T) {
		res := sampleResult()
		res.BestDeals[0].Title = `iPhone <b>"15"</b> & co`

		out := FormatSearchResult(res)

		if strings.Contains(out, "<b>\"15\"") {
			t.Error("title markup leaked unescaped")
		}
		if !strings.Contains(out, "&lt;b&gt;") {
			t.Error("expected escaped title")
		}
	})

	t.Run("empty deals suggest raising budget", func(t *testing.T) {
		res := sampleResult()
		res.BestDeals = nil
		res.Analysis = domain.PriceAnalysis{}

		out := FormatSearchResult(res)

		if !strings.Contains(out, "Ничего подходящего") {
			t.Errorf("empty result should explain itself:\n%s", out)
		}
		if strings.Contains(out, "Лучшие предложения") {
			t.Error("empty result should not render a deals section")
		}
	})

	t.Run("nil stats render no price line", func(t *testing.T) {
		res := sampleResult()
		res.Analysis.Global = nil

		out := FormatSearchResult(res)

		if strings.Contains(out, "медиана") {
			t.Error("price stats line should be omitted when Global is nil")
		}
	})
}

func TestFormatHistory(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		out := FormatHistory(nil)
		if !strings.Contains(out, "История пуста") {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("records with best price", func(t *testing.T) {
		best := 5300.0
		records := []domain.SearchRecord{
			{
				Brand: "Apple", Model: "iPhone 15", MaxPrice: 6000,
				AfterFiltering: 2, BestPrice: &best,
				CreatedAt: time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC),
			},
			{
				Brand: "Xiaomi", Model: "14", MaxPrice: 4500,
				AfterFiltering: 0,
				CreatedAt:      time.Date(2026, 8, 19, 10, 0, 0, 0, time.UTC),
			},
		}

		out := FormatHistory(records)

		for _, want := range []string{
			"Apple iPhone 15",
			"лучшая цена ¥5300.00",
			"20.08.2026 14:30",
			"Xiaomi 14",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q\n%s", want, out)
			}
		}
	})
}

func TestSplitMessage(t *testing.T) {
	t.Run("short message untouched", func(t *testing.T) {
		parts := SplitMessage("short", 4096)
		if len(parts) != 1 || parts[0] != "short" {
			t.Errorf("SplitMessage() = %v", parts)
		}
	})

	t.Run("long message split under limit", func(t *testing.T) {
		text := strings.Repeat("слово слово слово\n", 500)
		parts := SplitMessage(text, 1000)

		if len(parts) < 2 {
			t.Fatalf("expected multiple parts, got %d", len(parts))
		}
		var total int
		for i, p := range parts {
			if len(p) > 1000 {
				t.Errorf("part %d has %d bytes, exceeds limit", i, len(p))
			}
			total += len(p)
		}
		if total != len(text) {
			t.Errorf("reassembled length %d, expected %d (no content lost)", total, len(text))
		}
	})

	t.Run("does not split inside a tag", func(t *testing.T) {
		text := strings.Repeat("a ", 490) + `<a href="https://example.com/very-long-url">link</a>` + strings.Repeat(" b", 200)
		parts := SplitMessage(text, 1000)

		for i, p := range parts {
			opens := strings.Count(p, "<")
			closes := strings.Count(p, ">")
			if opens != closes {
				t.Errorf("part %d has unbalanced tag brackets: %q", i, p)
			}
		}
	})
}
