// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"fmt"
	"sort"

	"github.com/pdiddy/shelf-engine/pkg/types"
)

// byTitle looks the title up in the catalog index and ranks every other
// book by its precomputed similarity score. The queried book itself is
// never part of the output: its row entry is the guaranteed 1.0
// self-similarity, not a recommendation.
func (e *Engine) byTitle(title string, fetch int) ([]types.Recommendation, error) {
	pos, ok := e.catalog.PositionOf(title)
	if !ok {
		return nil, fmt.Errorf("%w: title %q", ErrNotFound, title)
	}

	row, err := e.index.SimilarityRow(pos)
	if err != nil {
		return nil, err
	}

	order := make([]int, 0, len(row)-1)
	for i := range row {
		if i != pos {
			order = append(order, i)
		}
	}
	// Stable sort keeps equal scores in catalog order.
	sort.SliceStable(order, func(a, b int) bool {
		return row[order[a]] > row[order[b]]
	})
	if len(order) > fetch {
		order = order[:fetch]
	}

	recs := make([]types.Recommendation, len(order))
	for i, p := range order {
		recs[i] = types.Recommendation{
			Book:      e.catalog.ByPosition(p),
			ScoreKind: types.ScoreSimilarity,
			Score:     row[p],
		}
	}
	return recs, nil
}
