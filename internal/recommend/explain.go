// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"fmt"
	"strings"

	"github.com/pdiddy/shelf-engine/pkg/types"
)

// noteSeparator joins the individual notes of one explanation.
const noteSeparator = " - "

// Explain attaches a human-readable rationale to each recommendation.
// When referenceTitle names a known catalog book (the title that was
// queried), recommendations are compared against it on author and
// category; the score-band note is emitted in every case. Explanations
// are purely descriptive and never change ranking or filtering.
func (e *Engine) Explain(recs []types.Recommendation, referenceTitle string) {
	var ref *types.Book
	if referenceTitle != "" {
		if pos, ok := e.catalog.PositionOf(referenceTitle); ok {
			b := e.catalog.ByPosition(pos)
			ref = &b
		}
	}
	for i := range recs {
		recs[i].Explanation = explanation(recs[i], ref, referenceTitle)
	}
}

func explanation(rec types.Recommendation, ref *types.Book, referenceTitle string) string {
	var notes []string

	if ref != nil {
		if rec.Book.Author == ref.Author {
			notes = append(notes, fmt.Sprintf("Same author as '%s'", referenceTitle))
		}
		if rec.Book.Category == ref.Category {
			notes = append(notes, "Same genre/category")
		} else {
			notes = append(notes, "Different genre that you might enjoy")
		}
	}

	switch rec.ScoreKind {
	case types.ScoreSimilarity:
		switch {
		case rec.Score > 0.55:
			notes = append(notes, "Very similar content")
		case rec.Score > 0.35:
			notes = append(notes, "Moderately similar themes")
		default:
			notes = append(notes, "Some thematic elements in common")
		}
	case types.ScoreRelevance:
		switch {
		case rec.Score > 0.5:
			notes = append(notes, "Highly relevant to your search")
		case rec.Score > 0.35:
			notes = append(notes, "Moderately relevant to your search")
		default:
			notes = append(notes, "Somewhat relevant to your search")
		}
	}

	return strings.Join(notes, noteSeparator)
}
