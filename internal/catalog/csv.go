// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/shelf-engine/pkg/types"
)

// ImportSummary holds counts from a catalog CSV import.
type ImportSummary struct {
	Imported int
	Skipped  int
}

// Total returns the number of data rows processed.
func (s ImportSummary) Total() int {
	return s.Imported + s.Skipped
}

// csvColumns maps recognized header names to Book fields. Header
// matching is case-insensitive and tolerates the column names of the
// original dataset exports (book_title, year_of_publication, img_l).
var csvColumns = map[string]string{
	"title":               "title",
	"book_title":          "title",
	"author":              "author",
	"book_author":         "author",
	"category":            "category",
	"year":                "year",
	"year_of_publication": "year",
	"rating":              "rating",
	"average_rating":      "rating",
	"description":         "description",
	"summary":             "description",
	"image_url":           "image_url",
	"img_l":               "image_url",
}

// ReadCSV parses a books CSV file into catalog rows. The first record
// is the header. Rows missing a title are skipped and reported to w;
// unparseable years or ratings leave the field at its zero value
// (year 0 is the missing-year marker downstream).
func ReadCSV(path string, w io.Writer) ([]types.Book, ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ImportSummary{}, fmt.Errorf("opening catalog CSV: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, ImportSummary{}, fmt.Errorf("reading CSV header: %w", err)
	}

	fields := make(map[int]string, len(header))
	for i, name := range header {
		if field, ok := csvColumns[strings.ToLower(strings.TrimSpace(name))]; ok {
			fields[i] = field
		}
	}
	if !headerHas(fields, "title") {
		return nil, ImportSummary{}, fmt.Errorf("CSV header %v has no title column", header)
	}

	var books []types.Book
	var summary ImportSummary
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(w, "skipped line %d: %v\n", line, err)
			summary.Skipped++
			continue
		}

		var b types.Book
		for i, value := range record {
			value = strings.TrimSpace(value)
			switch fields[i] {
			case "title":
				b.Title = value
			case "author":
				b.Author = value
			case "category":
				b.Category = value
			case "year":
				if y, err := strconv.Atoi(value); err == nil {
					b.Year = y
				}
			case "rating":
				if rt, err := strconv.ParseFloat(value, 64); err == nil {
					b.Rating = rt
				}
			case "description":
				b.Description = value
			case "image_url":
				b.ImageURL = value
			}
		}

		if b.Title == "" {
			fmt.Fprintf(w, "skipped line %d: empty title\n", line)
			summary.Skipped++
			continue
		}
		books = append(books, b)
		summary.Imported++
	}

	return books, summary, nil
}

func headerHas(fields map[int]string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}
