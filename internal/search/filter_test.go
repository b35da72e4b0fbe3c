package search

import (
	"testing"

	"github.com/kitbuilder587/pricehunt-bot/internal/domain"
)

func TestNewMatchPipeline(t *testing.T) {
	criteria := domain.Criteria{Brand: "Apple", Model: "iPhone 15", MaxPrice: 6000}
	pipeline := NewMatchPipeline(criteria)

	tests := []struct {
		name string
		p    domain.Product
		keep bool
	}{
		{
			name: "exact match under budget",
			p:    domain.Product{Brand: "Apple", Model: "iPhone 15", Price: 5999},
			keep: true,
		},
		{
			name: "case and spacing variants match",
			p:    domain.Product{Brand: "  apple ", Model: "IPHONE  15", Price: 5000},
			keep: true,
		},
		{
			name: "price exactly at the cap is kept",
			p:    domain.Product{Brand: "Apple", Model: "iPhone 15", Price: 6000},
			keep: true,
		},
		{
			name: "one cent over the cap is dropped",
			p:    domain.Product{Brand: "Apple", Model: "iPhone 15", Price: 6000.01},
			keep: false,
		},
		{
			name: "superstring model does not match",
			p:    domain.Product{Brand: "Apple", Model: "iPhone 15 Pro", Price: 5999},
			keep: false,
		},
		{
			name: "wrong brand",
			p:    domain.Product{Brand: "Xiaomi", Model: "iPhone 15", Price: 5999},
			keep: false,
		},
		{
			name: "zero price is extraction garbage",
			p:    domain.Product{Brand: "Apple", Model: "iPhone 15", Price: 0},
			keep: false,
		},
		{
			name: "negative price",
			p:    domain.Product{Brand: "Apple", Model: "iPhone 15", Price: -5},
			keep: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := pipeline.Apply([]domain.Product{tt.p})
			kept := len(out) == 1
			if kept != tt.keep {
				t.Errorf("Apply() kept = %v, expected %v", kept, tt.keep)
			}
		})
	}
}

func TestPipeline_Apply(t *testing.T) {
	criteria := domain.Criteria{Brand: "Apple", Model: "iPhone 15", MaxPrice: 6000}
	pipeline := NewMatchPipeline(criteria)

	products := []domain.Product{
		{Brand: "Apple", Model: "iPhone 15", Price: 5000, Title: "first"},
		{Brand: "Apple", Model: "iPhone 14", Price: 4000, Title: "wrong model"},
		{Brand: "Apple", Model: "iPhone 15", Price: 5500, Title: "second"},
	}

	t.Run("preserves input order", func(t *testing.T) {
		out := pipeline.Apply(products)
		if len(out) != 2 {
			t.Fatalf("expected 2 products, got %d", len(out))
		}
		if out[0].Title != "first" || out[1].Title != "second" {
			t.Errorf("order changed: got %q, %q", out[0].Title, out[1].Title)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		once := pipeline.Apply(products)
		twice := pipeline.Apply(once)
		if len(once) != len(twice) {
			t.Errorf("second application changed the set: %d -> %d", len(once), len(twice))
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		before := len(products)
		pipeline.Apply(products)
		if len(products) != before {
			t.Error("input slice length changed")
		}
		if products[1].Model != "iPhone 14" {
			t.Error("input slice contents changed")
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if out := pipeline.Apply(nil); len(out) != 0 {
			t.Errorf("expected empty output, got %d", len(out))
		}
	})
}

func TestPipeline_Append(t *testing.T) {
	onlyJD := func(p domain.Product) bool { return p.Platform == "jd" }
	pipeline := NewPipeline(SanePrice()).Append(onlyJD)

	products := []domain.Product{
		{Platform: "jd", Price: 100},
		{Platform: "taobao", Price: 200},
	}

	out := pipeline.Apply(products)
	if len(out) != 1 || out[0].Platform != "jd" {
		t.Errorf("appended stage not applied, got %d products", len(out))
	}
}

func TestNormalizeField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Apple", "apple"},
		{"  iPhone   15  ", "iphone 15"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeField(tt.in); got != tt.want {
			t.Errorf("NormalizeField(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}
