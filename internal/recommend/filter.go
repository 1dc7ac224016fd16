// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"math"
	"strings"

	"github.com/pdiddy/shelf-engine/pkg/types"
)

// applyFilters runs the post-retrieval pipeline in order: category
// exclusion, year range, keyword intersection. Ranking order from the
// strategy is preserved throughout; an empty survivor set is a valid
// outcome at every stage.
func (e *Engine) applyFilters(recs []types.Recommendation, q Query) []types.Recommendation {
	if len(q.ExcludeCategories) > 0 {
		recs = excludeCategories(recs, q.ExcludeCategories)
	}
	// Author results cover the author's body of work regardless of era,
	// so the year range applies to title and keyword queries only.
	if q.hasYearRange() && q.Type != QueryAuthor {
		recs = filterYearRange(recs, q.YearFrom, q.YearTo)
	}
	if q.RequireKeywords != "" {
		recs = e.intersectKeywords(recs, q.RequireKeywords)
	}
	return recs
}

// excludeCategories drops candidates whose category contains any of
// the excluded strings. Containment is intentional: excluding
// "Fiction" also excludes "Science Fiction".
func excludeCategories(recs []types.Recommendation, excluded []string) []types.Recommendation {
	kept := recs[:0:0]
	for _, rec := range recs {
		category := strings.ToLower(rec.Book.Category)
		drop := false
		for _, ex := range excluded {
			if ex != "" && strings.Contains(category, strings.ToLower(ex)) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, rec)
		}
	}
	return kept
}

// filterYearRange keeps candidates whose publication year falls within
// the inclusive range. A missing year (zero) never satisfies an active
// range.
func filterYearRange(recs []types.Recommendation, from, to int) []types.Recommendation {
	if to == 0 {
		to = math.MaxInt
	}
	kept := recs[:0:0]
	for _, rec := range recs {
		year := rec.Book.Year
		if year != 0 && year >= from && year <= to {
			kept = append(kept, rec)
		}
	}
	return kept
}

// intersectKeywords keeps only candidates that also clear the relevance
// floor for the secondary keywords. The relevance pass runs over the
// entire catalog so the intersection is independent of the primary
// query's fetch window.
func (e *Engine) intersectKeywords(recs []types.Recommendation, keywords string) []types.Recommendation {
	matches := e.scoreKeywords(keywords, e.catalog.Len())
	titles := make(map[string]bool, len(matches))
	for _, m := range matches {
		titles[m.Book.Title] = true
	}

	kept := recs[:0:0]
	for _, rec := range recs {
		if titles[rec.Book.Title] {
			kept = append(kept, rec)
		}
	}
	return kept
}
