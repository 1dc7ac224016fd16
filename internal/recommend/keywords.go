// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"sort"

	"github.com/pdiddy/shelf-engine/pkg/types"
)

// relevanceFloor is the hard quality gate on keyword relevance scores.
// Results at or below it are dropped, which can shrink the result set
// below the requested count without being an error.
const relevanceFloor = 0.05

// byKeywords vectorizes the query in the fitted vocabulary space and
// ranks every book by cosine relevance. A query with no vocabulary
// overlap scores zero everywhere and yields an empty result, not
// ErrNotFound: the keywords are valid, they just match nothing.
func (e *Engine) byKeywords(keywords string, fetch int) ([]types.Recommendation, error) {
	return e.scoreKeywords(keywords, fetch), nil
}

// scoreKeywords is the shared relevance pass used by keyword retrieval
// and, over the whole catalog, by the keyword-intersection filter.
func (e *Engine) scoreKeywords(keywords string, fetch int) []types.Recommendation {
	scores := e.index.ScoreText(keywords)

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if len(order) > fetch {
		order = order[:fetch]
	}

	var recs []types.Recommendation
	for _, p := range order {
		if scores[p] <= relevanceFloor {
			break
		}
		recs = append(recs, types.Recommendation{
			Book:      e.catalog.ByPosition(p),
			ScoreKind: types.ScoreRelevance,
			Score:     scores[p],
		})
	}
	return recs
}
