// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/shelf-engine/pkg/types"
)

func TestNewAssignsPositions(t *testing.T) {
	c := New([]types.Book{
		{Title: "Dune"},
		{Title: "Emma"},
	})

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	for i := 0; i < c.Len(); i++ {
		if got := c.ByPosition(i).Position; got != i {
			t.Errorf("book %d has Position %d", i, got)
		}
	}
}

func TestPositionOf(t *testing.T) {
	c := New([]types.Book{
		{Title: "Dune"},
		{Title: "Dune Messiah"},
	})

	pos, ok := c.PositionOf("Dune Messiah")
	if !ok || pos != 1 {
		t.Errorf("PositionOf(Dune Messiah) = (%d, %v), want (1, true)", pos, ok)
	}

	// A miss is reported, not raised.
	if _, ok := c.PositionOf("Persuasion"); ok {
		t.Error("PositionOf returned ok for unknown title")
	}
}

func TestDuplicateTitleFirstWins(t *testing.T) {
	c := New([]types.Book{
		{Title: "Dune", Author: "first"},
		{Title: "Dune", Author: "second"},
	})

	pos, ok := c.PositionOf("Dune")
	if !ok || pos != 0 {
		t.Errorf("PositionOf(Dune) = (%d, %v), want (0, true)", pos, ok)
	}
}

// --- CSV import ---

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeCSV(t,
		"book_title,book_author,Category,year_of_publication,average_rating,Summary,img_l\n"+
			"Dune,Herman,SciFi,1965,4.5,desert planet,http://img/dune.jpg\n"+
			"Emma,Austen,Romance,1815,4.2,regency manners,\n")

	var log strings.Builder
	books, summary, err := ReadCSV(path, &log)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Imported != 2 || summary.Skipped != 0 {
		t.Fatalf("summary = %+v, want 2 imported", summary)
	}

	dune := books[0]
	if dune.Title != "Dune" || dune.Author != "Herman" || dune.Category != "SciFi" {
		t.Errorf("dune = %+v", dune)
	}
	if dune.Year != 1965 || dune.Rating != 4.5 {
		t.Errorf("dune year/rating = %d/%f", dune.Year, dune.Rating)
	}
	if dune.Description != "desert planet" || dune.ImageURL != "http://img/dune.jpg" {
		t.Errorf("dune description/image = %q/%q", dune.Description, dune.ImageURL)
	}
}

func TestReadCSVSkipsBadRows(t *testing.T) {
	path := writeCSV(t,
		"title,author,year\n"+
			"Dune,Herman,1965\n"+
			",Anonymous,1900\n"+
			"Undated,Unknown,not-a-year\n")

	var log strings.Builder
	books, summary, err := ReadCSV(path, &log)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Imported != 2 || summary.Skipped != 1 {
		t.Fatalf("summary = %+v, want 2 imported 1 skipped", summary)
	}
	if !strings.Contains(log.String(), "empty title") {
		t.Errorf("skip reason not reported: %q", log.String())
	}
	// Unparseable year is not fatal; it becomes the missing-year marker.
	if books[1].Title != "Undated" || books[1].Year != 0 {
		t.Errorf("undated book = %+v", books[1])
	}
}

func TestReadCSVRejectsHeaderWithoutTitle(t *testing.T) {
	path := writeCSV(t, "author,year\nHerman,1965\n")

	if _, _, err := ReadCSV(path, os.Stderr); err == nil {
		t.Error("ReadCSV accepted header without title column")
	}
}
