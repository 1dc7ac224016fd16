// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend implements the recommendation engine: the three
// retrieval strategies over the catalog and similarity index, the
// filter/rank pipeline, and the explanation generator.
package recommend

import (
	"errors"
	"fmt"

	"github.com/pdiddy/shelf-engine/internal/catalog"
	"github.com/pdiddy/shelf-engine/internal/index"
	"github.com/pdiddy/shelf-engine/pkg/types"
)

var (
	// ErrNotFound signals that the queried title or author does not
	// exist in the catalog. It is distinct from an empty result: an
	// unknown key is not the same condition as zero survivors after
	// ranking and filtering.
	ErrNotFound = errors.New("not found")

	// ErrInvalidQueryType signals an unrecognized query type. The query
	// is rejected before any retrieval work.
	ErrInvalidQueryType = errors.New("invalid query type")
)

// QueryType selects the retrieval strategy.
type QueryType string

const (
	QueryTitle    QueryType = "title"
	QueryAuthor   QueryType = "author"
	QueryKeywords QueryType = "keywords"
)

// Query holds one recommendation request. A Query is ephemeral and
// never mutated by the engine.
type Query struct {
	// Type selects the retrieval strategy.
	Type QueryType

	// Text is the title, author substring, or keyword string.
	Text string

	// TopN is the requested result count. Zero uses the engine default.
	TopN int

	// ExcludeCategories drops candidates whose category contains any of
	// these strings (case-insensitive substring containment).
	ExcludeCategories []string

	// YearFrom and YearTo bound the publication year, inclusive. Zero
	// leaves that end open; the range is active when either is set.
	// Author queries ignore the year range entirely.
	YearFrom int
	YearTo   int

	// RequireKeywords is an optional secondary constraint: candidates
	// must also rank above the relevance floor for these keywords.
	RequireKeywords string
}

func (q Query) hasYearRange() bool {
	return q.YearFrom > 0 || q.YearTo > 0
}

// Engine answers recommendation queries against a loaded catalog and
// similarity index. It holds no mutable state, so one Engine may serve
// concurrent callers without locking.
type Engine struct {
	catalog    *catalog.Catalog
	index      *index.Index
	maxResults int
}

// NewEngine assembles an engine from a catalog and its similarity
// index. The two must describe the same book table row for row.
func NewEngine(cat *catalog.Catalog, ix *index.Index, cfg types.RecommendConfig) (*Engine, error) {
	if cat.Len() != ix.Len() {
		return nil, fmt.Errorf("catalog has %d books but index covers %d", cat.Len(), ix.Len())
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	return &Engine{catalog: cat, index: ix, maxResults: maxResults}, nil
}

// Recommend runs the strategy selected by the query type, applies the
// filter pipeline, and truncates to the requested count. An empty
// result is a valid outcome and returns a nil error; ErrNotFound and
// ErrInvalidQueryType are the recoverable failure signals.
func (e *Engine) Recommend(q Query) ([]types.Recommendation, error) {
	topN := q.TopN
	if topN <= 0 {
		topN = e.maxResults
	}
	// Fetch double the requested count so downstream filters have
	// headroom before the final truncation.
	fetch := topN * 2

	var (
		recs []types.Recommendation
		err  error
	)
	switch q.Type {
	case QueryTitle:
		recs, err = e.byTitle(q.Text, fetch)
	case QueryAuthor:
		recs, err = e.byAuthor(q.Text, fetch)
	case QueryKeywords:
		recs, err = e.byKeywords(q.Text, fetch)
	default:
		return nil, fmt.Errorf("%w: %q (use title, author, or keywords)", ErrInvalidQueryType, q.Type)
	}
	if err != nil {
		return nil, err
	}

	recs = e.applyFilters(recs, q)
	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs, nil
}
