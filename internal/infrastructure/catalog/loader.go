package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dermalens/backend/internal/domain"
)

// Loader reads raw product rows from a CSV catalog file
type Loader struct {
	path string
}

// NewLoader creates a new catalog loader
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the whole catalog. The header row drives column mapping, so
// column order is irrelevant and absent optional columns (rating, reviews,
// price) leave the corresponding fields empty for the normalizer to default.
func (l *Loader) Load(ctx context.Context) ([]domain.RawProductRow, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoadFailure, err)
	}
	defer file.Close()

	return l.parse(ctx, file)
}

func (l *Loader) parse(ctx context.Context, r io.Reader) ([]domain.RawProductRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // catalog dumps have ragged rows
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", domain.ErrCatalogLoadFailure, err)
	}
	columns := indexColumns(header)

	var rows []domain.RawProductRow
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoadFailure, err)
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// One malformed row must not abort the catalog load
			log.Printf("[CATALOG] Skipping malformed row: %v", err)
			continue
		}

		rows = append(rows, domain.RawProductRow{
			PID:         field(record, columns, "pid", "id"),
			Name:        field(record, columns, "name"),
			Brand:       field(record, columns, "brand"),
			Price:       field(record, columns, "price"),
			Category:    field(record, columns, "category"),
			Description: field(record, columns, "description"),
			Rating:      field(record, columns, "rating"),
			Reviews:     field(record, columns, "reviews"),
			Ingredients: field(record, columns, "ingredients"),
		})
	}

	log.Printf("[CATALOG] Loaded %d rows from %s", len(rows), l.path)
	return rows, nil
}

// indexColumns maps lowercased header names to positions. First occurrence
// wins if a header repeats.
func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, exists := columns[key]; !exists {
			columns[key] = i
		}
	}
	return columns
}

// field returns the record value for the first of the given column names
// that exists, or empty string when none do
func field(record []string, columns map[string]int, names ...string) string {
	for _, name := range names {
		if idx, ok := columns[name]; ok && idx < len(record) {
			return record[idx]
		}
	}
	return ""
}
