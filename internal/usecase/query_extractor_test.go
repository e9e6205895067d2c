package usecase

import (
	"reflect"
	"testing"
)

func TestExtractConstraints(t *testing.T) {
	extractor := NewQueryExtractor(false)

	t.Run("price cap", func(t *testing.T) {
		constraints := extractor.ExtractConstraints("a good moisturizer under $25")
		if constraints == nil || constraints.PriceRange == nil {
			t.Fatalf("constraints = %+v, want price range", constraints)
		}
		if constraints.PriceRange.Min != 0 || constraints.PriceRange.Max != 25 {
			t.Errorf("PriceRange = %+v, want [0, 25]", constraints.PriceRange)
		}
	})

	t.Run("price cap with space after dollar sign", func(t *testing.T) {
		constraints := extractor.ExtractConstraints("under $ 100 please")
		if constraints == nil || constraints.PriceRange == nil || constraints.PriceRange.Max != 100 {
			t.Fatalf("constraints = %+v, want max 100", constraints)
		}
	})

	t.Run("skin type keyword", func(t *testing.T) {
		tests := []struct {
			message string
			want    string
		}{
			{"serum for dry skin", "dry"},
			{"I have OILY skin", "oily"},
			{"combination skin routine", "combination"},
			{"sensitive skin cleanser", "sensitive"},
		}
		for _, tt := range tests {
			constraints := extractor.ExtractConstraints(tt.message)
			if constraints == nil || constraints.SkinType != tt.want {
				t.Errorf("ExtractConstraints(%q) SkinType = %+v, want %q", tt.message, constraints, tt.want)
			}
		}
	})

	t.Run("price and skin type together", func(t *testing.T) {
		constraints := extractor.ExtractConstraints("dry skin cream under $30")
		if constraints == nil {
			t.Fatal("constraints = nil, want both filters")
		}
		if constraints.SkinType != "dry" {
			t.Errorf("SkinType = %q, want dry", constraints.SkinType)
		}
		if constraints.PriceRange == nil || constraints.PriceRange.Max != 30 {
			t.Errorf("PriceRange = %+v, want max 30", constraints.PriceRange)
		}
	})

	t.Run("nothing recognized yields nil", func(t *testing.T) {
		if constraints := extractor.ExtractConstraints("best vitamin c serum"); constraints != nil {
			t.Errorf("constraints = %+v, want nil", constraints)
		}
	})
}

func TestExtractExclusions(t *testing.T) {
	extractor := NewQueryExtractor(false)

	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{
			name:    "without clause",
			message: "a cleanser without parabens",
			want:    []string{"parabens"},
		},
		{
			name:    "comma-separated terms",
			message: "moisturizer without parabens, sulfates",
			want:    []string{"parabens", "sulfates"},
		},
		{
			name:    "avoid clause",
			message: "please avoid fragrance",
			want:    []string{"fragrance"},
		},
		{
			name:    "no exclusions",
			message: "best serum for glow",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractor.ExtractExclusions(tt.message)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractExclusions(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestExtractComparison(t *testing.T) {
	extractor := NewQueryExtractor(false)

	t.Run("detects comparison requests", func(t *testing.T) {
		id1, id2, ok := extractor.ExtractComparison("please compare p123 and p456")
		if !ok {
			t.Fatal("expected a comparison match")
		}
		if id1 != "p123" || id2 != "p456" {
			t.Errorf("ids = %q, %q, want p123, p456", id1, id2)
		}
	})

	t.Run("case-insensitive", func(t *testing.T) {
		id1, id2, ok := extractor.ExtractComparison("Compare P1 And P2")
		if !ok || id1 != "p1" || id2 != "p2" {
			t.Errorf("ids = %q, %q (ok=%v), want p1, p2", id1, id2, ok)
		}
	})

	t.Run("non-comparison messages do not match", func(t *testing.T) {
		for _, message := range []string{
			"find me a serum",
			"compare prices",
			"compare this",
		} {
			if _, _, ok := extractor.ExtractComparison(message); ok {
				t.Errorf("ExtractComparison(%q) matched, want no match", message)
			}
		}
	})
}
