// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"math"
	"testing"

	"github.com/pdiddy/shelf-engine/pkg/types"
)

func testBooks() []types.Book {
	return []types.Book{
		{Title: "Dune", Author: "Herman", Category: "SciFi", Description: "desert planet spice empire prophecy"},
		{Title: "Dune Messiah", Author: "Herman", Category: "SciFi", Description: "desert empire prophecy jihad spice"},
		{Title: "Emma", Author: "Austen", Category: "Romance", Description: "regency matchmaking manners society"},
	}
}

func TestBuildMatrixShape(t *testing.T) {
	ix := Build(testBooks())

	n := ix.Len()
	if n != 3 {
		t.Fatalf("Len() = %d, want 3", n)
	}

	for i := 0; i < n; i++ {
		row, err := ix.SimilarityRow(i)
		if err != nil {
			t.Fatalf("SimilarityRow(%d): %v", i, err)
		}
		if len(row) != n {
			t.Fatalf("row %d has %d entries, want %d", i, len(row), n)
		}
		if math.Abs(row[i]-1) > 1e-9 {
			t.Errorf("diagonal [%d][%d] = %f, want 1", i, i, row[i])
		}
		for j := 0; j < n; j++ {
			other, _ := ix.SimilarityRow(j)
			if math.Abs(row[j]-other[i]) > 1e-9 {
				t.Errorf("matrix not symmetric at [%d][%d]: %f vs %f", i, j, row[j], other[i])
			}
			if row[j] < 0 || row[j] > 1+1e-9 {
				t.Errorf("similarity [%d][%d] = %f outside [0,1]", i, j, row[j])
			}
		}
	}
}

func TestBuildRanksSharedVocabularyHigher(t *testing.T) {
	ix := Build(testBooks())

	row, err := ix.SimilarityRow(0)
	if err != nil {
		t.Fatal(err)
	}
	// Dune shares most of its description with Dune Messiah and almost
	// nothing with Emma.
	if row[1] <= row[2] {
		t.Errorf("sim(Dune, Dune Messiah) = %f <= sim(Dune, Emma) = %f", row[1], row[2])
	}
}

func TestSimilarityRowOutOfRange(t *testing.T) {
	ix := Build(testBooks())
	if _, err := ix.SimilarityRow(-1); err == nil {
		t.Error("SimilarityRow(-1) succeeded, want error")
	}
	if _, err := ix.SimilarityRow(ix.Len()); err == nil {
		t.Errorf("SimilarityRow(%d) succeeded, want error", ix.Len())
	}
}

func TestScoreText(t *testing.T) {
	ix := Build(testBooks())

	scores := ix.ScoreText("desert spice")
	if len(scores) != 3 {
		t.Fatalf("len(scores) = %d, want 3", len(scores))
	}
	if scores[0] <= scores[2] || scores[1] <= scores[2] {
		t.Errorf("desert query scored Emma too high: %v", scores)
	}

	// Query with no vocabulary overlap scores zero everywhere.
	for i, s := range ix.ScoreText("xylophone") {
		if s != 0 {
			t.Errorf("scores[%d] = %f for out-of-vocabulary query, want 0", i, s)
		}
	}
}

func TestFromPartsValidation(t *testing.T) {
	docs := []SparseVector{{}, {}}
	square := [][]float64{{1, 0}, {0, 1}}

	if _, err := FromParts(nil, docs, square); err != nil {
		t.Errorf("consistent parts rejected: %v", err)
	}

	if _, err := FromParts(nil, docs[:1], square); err == nil {
		t.Error("doc/matrix count mismatch accepted")
	}
	ragged := [][]float64{{1, 0}, {0}}
	if _, err := FromParts(nil, docs, ragged); err == nil {
		t.Error("non-square matrix accepted")
	}
}
