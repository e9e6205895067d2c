package usecase

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/dermalens/backend/internal/domain"
)

// QueryExtractor pulls structured constraints and ingredient exclusions out
// of free-text shopping queries
type QueryExtractor struct {
	enableDebugLogging bool
}

// Compiled regex patterns for query extraction
var (
	// Matches price caps like "under $25", "under $ 100"
	priceCapPattern = regexp.MustCompile(`under\s*\$(\d+)`)

	// Matches exclusion phrases like "without parabens, sulfates" or
	// "avoid fragrance"
	exclusionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`without\s+([\w\s,]+)`),
		regexp.MustCompile(`exclude\s+([\w\s,]+)`),
		regexp.MustCompile(`no\s+([\w\s,]+)`),
		regexp.MustCompile(`avoid\s+([\w\s,]+)`),
	}

	// Matches comparison requests like "compare p123 and p456"
	comparisonPattern = regexp.MustCompile(`compare\s+(\w+)\s+and\s+(\w+)`)
)

// supportedSkinTypes are the skin type tags recognized in free text
var supportedSkinTypes = []string{"dry", "oily", "combination", "sensitive", "normal"}

// NewQueryExtractor creates a new query extractor
func NewQueryExtractor(enableDebugLogging bool) *QueryExtractor {
	return &QueryExtractor{enableDebugLogging: enableDebugLogging}
}

// ExtractConstraints derives structured constraints from a message.
// Recognizes "under $N" price caps and the first supported skin type keyword.
func (e *QueryExtractor) ExtractConstraints(message string) *domain.Constraints {
	lower := strings.ToLower(message)
	constraints := &domain.Constraints{}
	found := false

	if m := priceCapPattern.FindStringSubmatch(lower); m != nil {
		if cap, err := strconv.ParseFloat(m[1], 64); err == nil {
			constraints.PriceRange = &domain.PriceRange{Min: 0, Max: cap}
			found = true
		}
	}

	for _, skinType := range supportedSkinTypes {
		if strings.Contains(lower, skinType) {
			constraints.SkinType = skinType
			found = true
			break
		}
	}

	if !found {
		return nil
	}
	if e.enableDebugLogging {
		log.Printf("[EXTRACT] Message %q -> constraints %+v", message, constraints)
	}
	return constraints
}

// ExtractExclusions derives ingredients to exclude from a message.
// Text captured after "without", "exclude", "no", or "avoid" is comma-split
// into individual exclusion terms.
func (e *QueryExtractor) ExtractExclusions(message string) []string {
	lower := strings.ToLower(message)

	var excluded []string
	for _, pattern := range exclusionPatterns {
		matches := pattern.FindAllStringSubmatch(lower, -1)
		if len(matches) == 0 {
			continue
		}
		var captured []string
		for _, m := range matches {
			captured = append(captured, m[1])
		}
		for _, term := range strings.Split(strings.Join(captured, " "), ",") {
			if term = strings.TrimSpace(term); term != "" {
				excluded = append(excluded, term)
			}
		}
	}

	if e.enableDebugLogging && len(excluded) > 0 {
		log.Printf("[EXTRACT] Message %q -> exclusions %v", message, excluded)
	}
	return excluded
}

// ExtractComparison detects a "compare X and Y" request and returns the two
// product identifiers
func (e *QueryExtractor) ExtractComparison(message string) (string, string, bool) {
	m := comparisonPattern.FindStringSubmatch(strings.ToLower(message))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
