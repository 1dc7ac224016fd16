// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/shelf-engine/pkg/types"
)

// byAuthor scans the catalog for authors containing the query as a
// case-insensitive substring. Matches are an attribute filter, not a
// content ranking: they are ordered by descending average rating.
func (e *Engine) byAuthor(author string, fetch int) ([]types.Recommendation, error) {
	needle := strings.ToLower(author)

	var matched []types.Book
	for _, b := range e.catalog.Books() {
		if strings.Contains(strings.ToLower(b.Author), needle) {
			matched = append(matched, b)
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: author %q", ErrNotFound, author)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Rating > matched[j].Rating
	})
	if len(matched) > fetch {
		matched = matched[:fetch]
	}

	recs := make([]types.Recommendation, len(matched))
	for i, b := range matched {
		recs[i] = types.Recommendation{Book: b, ScoreKind: types.ScoreNone}
	}
	return recs, nil
}
