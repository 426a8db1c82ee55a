package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"lumina-commerce/internal/domain"

	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
//
// Expected headers: id, name, description, price, category, images, rating,
// featured, stock, sales. Only name, price and category are required. images
// holds "|" separated URLs; a row with only an image URL adds it to the
// product above.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

type csvRow struct {
	line      int
	ID        string
	Name      string
	Desc      string
	Price     string
	Category  string
	ImageURLs []string
	Rating    string
	Featured  string
	Stock     string
	Sales     string
}

// Run parses CSV rows and upserts one product per named row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, fmt.Errorf("%w: missing name column", domain.ErrInvalidInput)
	}

	var (
		current  *csvRow
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		row.line = line

		if row.Name != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (images) belong to the current product.
		if current != nil && len(row.ImageURLs) > 0 {
			current.ImageURLs = append(current.ImageURLs, row.ImageURLs...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	p, err := row.product()
	if err != nil {
		return fmt.Errorf("line %d (%q): %w", row.line, row.Name, err)
	}
	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Name, err)
	}
	return nil
}

func (row *csvRow) product() (domain.Product, error) {
	price, err := decimal.NewFromString(row.Price)
	if err != nil || price.IsNegative() {
		return domain.Product{}, fmt.Errorf("%w: invalid price %q", domain.ErrInvalidInput, row.Price)
	}
	category, ok := domain.ParseCategory(row.Category)
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, row.Category)
	}

	p := domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Desc,
		Price:       price,
		Category:    category,
		Images:      row.ImageURLs,
	}
	if row.Rating != "" {
		if p.Rating, err = strconv.ParseFloat(row.Rating, 64); err != nil {
			return domain.Product{}, fmt.Errorf("%w: invalid rating %q", domain.ErrInvalidInput, row.Rating)
		}
	}
	if row.Featured != "" {
		if p.Featured, err = strconv.ParseBool(row.Featured); err != nil {
			return domain.Product{}, fmt.Errorf("%w: invalid featured flag %q", domain.ErrInvalidInput, row.Featured)
		}
	}
	if row.Stock != "" {
		stock, err := strconv.Atoi(row.Stock)
		if err != nil || stock < 0 {
			return domain.Product{}, fmt.Errorf("%w: invalid stock %q", domain.ErrInvalidInput, row.Stock)
		}
		p.Stock = &stock
	}
	if row.Sales != "" {
		if p.Sales, err = strconv.Atoi(row.Sales); err != nil {
			return domain.Product{}, fmt.Errorf("%w: invalid sales %q", domain.ErrInvalidInput, row.Sales)
		}
	}
	return p, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	name := pick(record, index, "name")
	images := splitImages(pick(record, index, "images"))

	if name == "" && len(images) == 0 {
		return nil
	}

	return &csvRow{
		ID:        pick(record, index, "id"),
		Name:      name,
		Desc:      pick(record, index, "description"),
		Price:     pick(record, index, "price"),
		Category:  pick(record, index, "category"),
		ImageURLs: images,
		Rating:    pick(record, index, "rating"),
		Featured:  pick(record, index, "featured"),
		Stock:     pick(record, index, "stock"),
		Sales:     pick(record, index, "sales"),
	}
}

func splitImages(raw string) []string {
	var out []string
	for _, u := range strings.Split(raw, "|") {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
