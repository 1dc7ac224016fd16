// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"testing"

	"github.com/pdiddy/shelf-engine/pkg/types"
)

func TestExplainWithReference(t *testing.T) {
	e := fixedEngine(t)

	recs, err := e.Recommend(Query{Type: QueryTitle, Text: "Dune", TopN: 5})
	if err != nil {
		t.Fatal(err)
	}
	e.Explain(recs, "Dune")

	// Dune Messiah: same author, same category, similarity 0.8.
	want := "Same author as 'Dune' - Same genre/category - Very similar content"
	if recs[0].Explanation != want {
		t.Errorf("explanation = %q, want %q", recs[0].Explanation, want)
	}

	// Emma: different author and genre, similarity 0.1.
	want = "Different genre that you might enjoy - Some thematic elements in common"
	if recs[1].Explanation != want {
		t.Errorf("explanation = %q, want %q", recs[1].Explanation, want)
	}
}

func TestExplainSimilarityBands(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"very similar", 0.56, "Very similar content"},
		{"band boundary is exclusive", 0.55, "Moderately similar themes"},
		{"moderately similar", 0.36, "Moderately similar themes"},
		{"some elements", 0.35, "Some thematic elements in common"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := types.Recommendation{ScoreKind: types.ScoreSimilarity, Score: tt.score}
			if got := explanation(rec, nil, ""); got != tt.want {
				t.Errorf("explanation = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExplainRelevanceBands(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"highly relevant", 0.51, "Highly relevant to your search"},
		{"moderately relevant", 0.4, "Moderately relevant to your search"},
		{"somewhat relevant", 0.1, "Somewhat relevant to your search"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := types.Recommendation{ScoreKind: types.ScoreRelevance, Score: tt.score}
			if got := explanation(rec, nil, ""); got != tt.want {
				t.Errorf("explanation = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExplainAuthorResultsWithoutReference(t *testing.T) {
	e := fixedEngine(t)

	recs, err := e.Recommend(Query{Type: QueryAuthor, Text: "herman", TopN: 5})
	if err != nil {
		t.Fatal(err)
	}
	e.Explain(recs, "")

	// No reference book and no score: nothing to explain.
	for _, r := range recs {
		if r.Explanation != "" {
			t.Errorf("%s explanation = %q, want empty", r.Book.Title, r.Explanation)
		}
	}
}

func TestExplainUnknownReferenceFallsBackToBands(t *testing.T) {
	e := fixedEngine(t)

	recs, err := e.Recommend(Query{Type: QueryTitle, Text: "Dune", TopN: 5})
	if err != nil {
		t.Fatal(err)
	}
	e.Explain(recs, "Not In Catalog")

	if recs[0].Explanation != "Very similar content" {
		t.Errorf("explanation = %q, want band note only", recs[0].Explanation)
	}
}
