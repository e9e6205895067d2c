package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dermalens/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	lineBreakTagRegex = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</div>|</li>`)
	htmlTagRegex      = regexp.MustCompile(`<[^>]*>`)
	currencyRegex     = regexp.MustCompile(`[$,]`)
	whitespaceRegex   = regexp.MustCompile(`[ \t]+`)
)

// Normalizer converts raw catalog rows into canonical products.
// Normalization never fails: every malformed or missing field degrades to a
// well-defined zero value so one bad row can never abort a catalog load.
type Normalizer struct {
	analyzer *IngredientAnalyzer
}

// NewNormalizer creates a new catalog normalizer
func NewNormalizer(analyzer *IngredientAnalyzer) *Normalizer {
	return &Normalizer{analyzer: analyzer}
}

// Normalize converts one raw row into a canonical product. Row order in the
// source catalog is preserved by the caller as the canonical index used to
// correlate products with embedding vectors.
func (n *Normalizer) Normalize(row domain.RawProductRow) domain.Product {
	description := stripMarkup(row.Description)
	skinTypes := extractTagList(description, "Skin Type:")
	concerns := extractTagList(description, "Skincare Concerns:")
	formulation := extractLine(description, "Formulation:")

	return domain.Product{
		ID:                 row.PID,
		Name:               row.Name,
		Brand:              row.Brand,
		Price:              parsePrice(row.Price),
		Category:           row.Category,
		Description:        description,
		Rating:             parseOptionalFloat(row.Rating),
		Reviews:            parseOptionalInt(row.Reviews),
		Ingredients:        row.Ingredients,
		SkinTypes:          skinTypes,
		SkincareConcerns:   concerns,
		Formulation:        formulation,
		IngredientAnalysis: n.analyzer.Analyze(row.Ingredients),
	}
}

// NormalizeAll normalizes every row, preserving source order
func (n *Normalizer) NormalizeAll(rows []domain.RawProductRow) []domain.Product {
	products := make([]domain.Product, len(rows))
	for i, row := range rows {
		products[i] = n.Normalize(row)
	}
	return products
}

// stripMarkup converts embedded HTML to plain text. Line-breaking tags become
// newlines first so label extraction can still find line boundaries.
func stripMarkup(s string) string {
	if s == "" {
		return ""
	}
	text := lineBreakTagRegex.ReplaceAllString(s, "\n")
	text = htmlTagRegex.ReplaceAllString(text, " ")
	text = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&#39;", "'",
		"&quot;", `"`,
	).Replace(text)
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// extractLine returns the text following the first occurrence of label, up to
// the next line break. Absent labels yield an empty string.
func extractLine(text, label string) string {
	idx := strings.Index(text, label)
	if idx < 0 {
		return ""
	}
	rest := text[idx+len(label):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest)
}

// extractTagList extracts a labeled line and splits it on commas into a tag set
func extractTagList(text, label string) []string {
	line := extractLine(text, label)
	if line == "" {
		return nil
	}
	parts := strings.Split(line, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// parsePrice strips currency symbols and thousands separators and parses the
// remainder as a float. Non-numeric garbage degrades to 0.
func parsePrice(s string) float64 {
	cleaned := currencyRegex.ReplaceAllString(strings.TrimSpace(s), "")
	if cleaned == "" {
		return 0
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || price < 0 {
		return 0
	}
	return price
}

// parseOptionalFloat coerces to a float, with invalid values becoming absent
// rather than zero
func parseOptionalFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseOptionalInt coerces to an integer, with invalid values becoming absent.
// Review counts exported as "123.0" by some catalog dumps still parse.
func parseOptionalInt(s string) *int {
	trimmed := strings.TrimSpace(s)
	if v, err := strconv.Atoi(trimmed); err == nil {
		return &v
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		v := int(f)
		return &v
	}
	return nil
}
