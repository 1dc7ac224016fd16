// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/shelf-engine/internal/index"
	"github.com/pdiddy/shelf-engine/pkg/types"
)

// Bundle load errors. ErrBundleMissing means the artifact file does not
// exist; ErrBundleCorrupt means it exists but its pieces are absent or
// inconsistent with each other. Both are fatal to startup: the engine
// refuses to serve queries without a complete bundle.
var (
	ErrBundleMissing = errors.New("catalog bundle missing")
	ErrBundleCorrupt = errors.New("catalog bundle corrupt")
)

// Store manages the SQLite artifact bundle: the book table, the fitted
// vectorizer, the document vectors, and the similarity matrix.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the artifact bundle at path and ensures the
// schema exists.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	s := &Store{db: db, path: cfg.Path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS books (
			position INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			category TEXT,
			year INTEGER,
			rating REAL,
			description TEXT,
			image_url TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS vocab (
			term_index INTEGER PRIMARY KEY,
			term TEXT NOT NULL UNIQUE,
			idf REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS doc_vectors (
			position INTEGER PRIMARY KEY REFERENCES books(position),
			indices TEXT NOT NULL,
			weights TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS similarity (
			position INTEGER PRIMARY KEY REFERENCES books(position),
			row BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ImportBooks replaces the book table with the given rows in order and
// clears any index built against the previous table.
func (s *Store) ImportBooks(ctx context.Context, books []types.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"similarity", "doc_vectors", "vocab", "books"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO books (position, title, author, category, year, rating, description, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, b := range books {
		_, err := stmt.ExecContext(ctx, i, b.Title, b.Author, b.Category,
			b.Year, b.Rating, b.Description, b.ImageURL)
		if err != nil {
			return fmt.Errorf("inserting book %q: %w", b.Title, err)
		}
	}

	if err := setMeta(ctx, tx, "book_count", fmt.Sprintf("%d", len(books))); err != nil {
		return err
	}
	return tx.Commit()
}

// BuildIndex fits the vectorizer over the stored books, computes the
// document vectors and the pairwise similarity matrix, and persists all
// three in one transaction. Progress is written to w.
func (s *Store) BuildIndex(ctx context.Context, w io.Writer) error {
	books, err := s.readBooks(ctx)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		return fmt.Errorf("no books imported: run catalog import first")
	}

	fmt.Fprintf(w, "fitting vectorizer over %d books\n", len(books))
	ix := index.Build(books)
	fmt.Fprintf(w, "vocabulary: %d terms\n", ix.Vectorizer().VocabSize())
	fmt.Fprintf(w, "similarity matrix: %dx%d\n", ix.Len(), ix.Len())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"similarity", "doc_vectors", "vocab"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	v := ix.Vectorizer()
	vocabStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO vocab (term_index, term, idf) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing vocab insert: %w", err)
	}
	defer vocabStmt.Close()
	for i := 0; i < v.VocabSize(); i++ {
		if _, err := vocabStmt.ExecContext(ctx, i, v.Term(i), v.IDF(i)); err != nil {
			return fmt.Errorf("inserting term %d: %w", i, err)
		}
	}

	docStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO doc_vectors (position, indices, weights) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing doc vector insert: %w", err)
	}
	defer docStmt.Close()

	simStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO similarity (position, row) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing similarity insert: %w", err)
	}
	defer simStmt.Close()

	for pos := 0; pos < ix.Len(); pos++ {
		indices, weights := splitVector(ix.DocVector(pos))
		indicesJSON, _ := json.Marshal(indices)
		weightsJSON, _ := json.Marshal(weights)
		if _, err := docStmt.ExecContext(ctx, pos, string(indicesJSON), string(weightsJSON)); err != nil {
			return fmt.Errorf("inserting doc vector %d: %w", pos, err)
		}

		row, err := ix.SimilarityRow(pos)
		if err != nil {
			return err
		}
		if _, err := simStmt.ExecContext(ctx, pos, encodeRow(row)); err != nil {
			return fmt.Errorf("inserting similarity row %d: %w", pos, err)
		}
	}

	if err := setMeta(ctx, tx, "built_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	if err := setMeta(ctx, tx, "vocab_size", fmt.Sprintf("%d", v.VocabSize())); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadBundle reads the artifact bundle at path into a Catalog and an
// Index. A missing file yields ErrBundleMissing; an incomplete or
// internally inconsistent bundle yields ErrBundleCorrupt. The four
// pieces must agree on row count and row order.
func LoadBundle(ctx context.Context, cfg types.CatalogConfig) (*Catalog, *index.Index, error) {
	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrBundleMissing, cfg.Path)
	}

	s, err := NewStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	defer s.Close()

	books, err := s.readBooks(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(books) == 0 {
		return nil, nil, fmt.Errorf("%w: no books in %s", ErrBundleCorrupt, cfg.Path)
	}

	vec, err := s.readVectorizer(ctx)
	if err != nil {
		return nil, nil, err
	}
	docs, err := s.readDocVectors(ctx, len(books))
	if err != nil {
		return nil, nil, err
	}
	sim, err := s.readSimilarity(ctx, len(books))
	if err != nil {
		return nil, nil, err
	}

	ix, err := index.FromParts(vec, docs, sim)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBundleCorrupt, err)
	}
	return New(books), ix, nil
}

func (s *Store) readBooks(ctx context.Context) ([]types.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, title, author, category, year, rating, description, image_url
		 FROM books ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying books: %w", err)
	}
	defer rows.Close()

	var books []types.Book
	for rows.Next() {
		var b types.Book
		var category, description, imageURL sql.NullString
		var year sql.NullInt64
		var rating sql.NullFloat64
		if err := rows.Scan(&b.Position, &b.Title, &b.Author, &category,
			&year, &rating, &description, &imageURL); err != nil {
			return nil, fmt.Errorf("scanning book row: %w", err)
		}
		b.Category = category.String
		b.Year = int(year.Int64)
		b.Rating = rating.Float64
		b.Description = description.String
		b.ImageURL = imageURL.String
		books = append(books, b)
	}
	return books, rows.Err()
}

func (s *Store) readVectorizer(ctx context.Context) (*index.Vectorizer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT term, idf FROM vocab ORDER BY term_index`)
	if err != nil {
		return nil, fmt.Errorf("querying vocabulary: %w", err)
	}
	defer rows.Close()

	var terms []string
	var idf []float64
	for rows.Next() {
		var term string
		var weight float64
		if err := rows.Scan(&term, &weight); err != nil {
			return nil, fmt.Errorf("scanning vocab row: %w", err)
		}
		terms = append(terms, term)
		idf = append(idf, weight)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: vocabulary missing (run catalog build)", ErrBundleCorrupt)
	}
	return index.NewVectorizer(terms, idf), nil
}

func (s *Store) readDocVectors(ctx context.Context, want int) ([]index.SparseVector, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, indices, weights FROM doc_vectors ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying document vectors: %w", err)
	}
	defer rows.Close()

	docs := make([]index.SparseVector, 0, want)
	for rows.Next() {
		var pos int
		var indicesJSON, weightsJSON string
		if err := rows.Scan(&pos, &indicesJSON, &weightsJSON); err != nil {
			return nil, fmt.Errorf("scanning doc vector row: %w", err)
		}
		if pos != len(docs) {
			return nil, fmt.Errorf("%w: doc vector positions out of sequence at %d", ErrBundleCorrupt, pos)
		}
		var indices []int
		var weights []float64
		if err := json.Unmarshal([]byte(indicesJSON), &indices); err != nil {
			return nil, fmt.Errorf("%w: doc vector %d indices: %v", ErrBundleCorrupt, pos, err)
		}
		if err := json.Unmarshal([]byte(weightsJSON), &weights); err != nil {
			return nil, fmt.Errorf("%w: doc vector %d weights: %v", ErrBundleCorrupt, pos, err)
		}
		if len(indices) != len(weights) {
			return nil, fmt.Errorf("%w: doc vector %d has %d indices but %d weights",
				ErrBundleCorrupt, pos, len(indices), len(weights))
		}
		vec := make(index.SparseVector, len(indices))
		for i, idx := range indices {
			vec[idx] = weights[i]
		}
		docs = append(docs, vec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(docs) != want {
		return nil, fmt.Errorf("%w: %d document vectors for %d books", ErrBundleCorrupt, len(docs), want)
	}
	return docs, nil
}

func (s *Store) readSimilarity(ctx context.Context, want int) ([][]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, row FROM similarity ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying similarity matrix: %w", err)
	}
	defer rows.Close()

	sim := make([][]float64, 0, want)
	for rows.Next() {
		var pos int
		var blob []byte
		if err := rows.Scan(&pos, &blob); err != nil {
			return nil, fmt.Errorf("scanning similarity row: %w", err)
		}
		if pos != len(sim) {
			return nil, fmt.Errorf("%w: similarity positions out of sequence at %d", ErrBundleCorrupt, pos)
		}
		row, err := decodeRow(blob)
		if err != nil {
			return nil, fmt.Errorf("%w: similarity row %d: %v", ErrBundleCorrupt, pos, err)
		}
		if len(row) != want {
			return nil, fmt.Errorf("%w: similarity row %d has %d entries, want %d",
				ErrBundleCorrupt, pos, len(row), want)
		}
		sim = append(sim, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sim) != want {
		return nil, fmt.Errorf("%w: %d similarity rows for %d books", ErrBundleCorrupt, len(sim), want)
	}
	return sim, nil
}

// Info describes the bundle contents for diagnostics.
type Info struct {
	Books       int
	VocabSize   int
	IndexedRows int
	BuiltAt     string
}

// Info reports how many books, vocabulary terms, and similarity rows
// the bundle currently holds, and when the index was last built.
func (s *Store) Info(ctx context.Context) (Info, error) {
	var info Info
	counts := map[string]*int{
		"books":      &info.Books,
		"vocab":      &info.VocabSize,
		"similarity": &info.IndexedRows,
	}
	for table, dst := range counts {
		if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM "+table).Scan(dst); err != nil {
			return Info{}, fmt.Errorf("counting %s: %w", table, err)
		}
	}
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = 'built_at'`).Scan(&info.BuiltAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Info{}, fmt.Errorf("reading built_at: %w", err)
	}
	return info, nil
}

func setMeta(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("writing meta %s: %w", key, err)
	}
	return nil
}

// splitVector flattens a sparse vector into parallel index/weight
// slices in ascending index order for JSON persistence.
func splitVector(vec index.SparseVector) ([]int, []float64) {
	indices := make([]int, 0, len(vec))
	for idx := range vec {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	weights := make([]float64, len(indices))
	for i, idx := range indices {
		weights[i] = vec[idx]
	}
	return indices, weights
}

// encodeRow packs a similarity row as little-endian float64 values.
func encodeRow(row []float64) []byte {
	b := make([]byte, len(row)*8)
	for i, v := range row {
		binary.LittleEndian.PutUint64(b[i*8:], math.Float64bits(v))
	}
	return b
}

// decodeRow unpacks a blob produced by encodeRow.
func decodeRow(b []byte) ([]float64, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("invalid row blob length %d (not multiple of 8)", len(b))
	}
	row := make([]float64, len(b)/8)
	for i := range row {
		row[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return row, nil
}
