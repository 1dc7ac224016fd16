// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"errors"
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/pdiddy/shelf-engine/pkg/types"
)

func testStoreBooks() []types.Book {
	return []types.Book{
		{Title: "Dune", Author: "Herman", Category: "SciFi", Year: 1965, Rating: 4.5,
			Description: "desert planet spice empire"},
		{Title: "Dune Messiah", Author: "Herman", Category: "SciFi", Year: 1969, Rating: 4.0,
			Description: "desert empire prophecy spice"},
		{Title: "Emma", Author: "Austen", Category: "Romance", Year: 1815, Rating: 4.2,
			Description: "regency matchmaking manners"},
	}
}

func builtBundle(t *testing.T) types.CatalogConfig {
	t.Helper()
	cfg := types.CatalogConfig{Path: filepath.Join(t.TempDir(), "shelf.db")}

	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.ImportBooks(ctx, testStoreBooks()); err != nil {
		t.Fatal(err)
	}
	if err := store.BuildIndex(ctx, io.Discard); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestBundleRoundTrip(t *testing.T) {
	cfg := builtBundle(t)

	cat, ix, err := LoadBundle(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if cat.Len() != 3 || ix.Len() != 3 {
		t.Fatalf("loaded %d books, %d index rows, want 3 each", cat.Len(), ix.Len())
	}

	pos, ok := cat.PositionOf("Dune Messiah")
	if !ok || pos != 1 {
		t.Errorf("PositionOf(Dune Messiah) = (%d, %v), want (1, true)", pos, ok)
	}
	if got := cat.ByPosition(0); got.Author != "Herman" || got.Year != 1965 || got.Rating != 4.5 {
		t.Errorf("book 0 = %+v", got)
	}

	row, err := ix.SimilarityRow(0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(row[0]-1) > 1e-9 {
		t.Errorf("self-similarity = %f, want 1", row[0])
	}
	if row[1] <= row[2] {
		t.Errorf("sim(Dune, Dune Messiah) = %f <= sim(Dune, Emma) = %f", row[1], row[2])
	}

	// The vectorizer survives the round trip: queries score against it.
	scores := ix.ScoreText("desert spice")
	if scores[0] <= scores[2] {
		t.Errorf("loaded vectorizer scores = %v", scores)
	}
}

func TestLoadBundleMissing(t *testing.T) {
	cfg := types.CatalogConfig{Path: filepath.Join(t.TempDir(), "absent.db")}

	_, _, err := LoadBundle(context.Background(), cfg)
	if !errors.Is(err, ErrBundleMissing) {
		t.Errorf("err = %v, want ErrBundleMissing", err)
	}
}

func TestLoadBundleWithoutIndex(t *testing.T) {
	cfg := types.CatalogConfig{Path: filepath.Join(t.TempDir(), "shelf.db")}

	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.ImportBooks(context.Background(), testStoreBooks()); err != nil {
		t.Fatal(err)
	}
	store.Close()

	// Books without a built index are an incomplete bundle.
	_, _, err = LoadBundle(context.Background(), cfg)
	if !errors.Is(err, ErrBundleCorrupt) {
		t.Errorf("err = %v, want ErrBundleCorrupt", err)
	}
}

func TestLoadBundleInconsistentRows(t *testing.T) {
	cfg := builtBundle(t)

	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.db.Exec(`DELETE FROM similarity WHERE position = 2`); err != nil {
		t.Fatal(err)
	}
	store.Close()

	_, _, err = LoadBundle(context.Background(), cfg)
	if !errors.Is(err, ErrBundleCorrupt) {
		t.Errorf("err = %v, want ErrBundleCorrupt", err)
	}
}

func TestImportClearsStaleIndex(t *testing.T) {
	cfg := builtBundle(t)

	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.ImportBooks(ctx, testStoreBooks()[:2]); err != nil {
		t.Fatal(err)
	}

	info, err := store.Info(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if info.Books != 2 || info.VocabSize != 0 || info.IndexedRows != 0 {
		t.Errorf("info after re-import = %+v, want 2 books and no index", info)
	}
}

func TestInfo(t *testing.T) {
	cfg := builtBundle(t)

	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	info, err := store.Info(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if info.Books != 3 || info.IndexedRows != 3 {
		t.Errorf("info = %+v, want 3 books and 3 index rows", info)
	}
	if info.VocabSize == 0 || info.BuiltAt == "" {
		t.Errorf("info = %+v, want vocabulary and build timestamp", info)
	}
}
