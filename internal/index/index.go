// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"fmt"
	"strings"

	"github.com/pdiddy/shelf-engine/pkg/types"
)

// Index is the read-only text similarity index over the catalog: the
// fitted vectorizer, one document vector per book, and the dense N×N
// cosine similarity matrix. The matrix costs O(N²) memory and is only
// viable because the catalog fits in memory; larger catalogs would need
// an approximate neighbor index instead.
type Index struct {
	vec  *Vectorizer
	docs []SparseVector
	sim  [][]float64
}

// corpusText assembles the text field a book is indexed under.
func corpusText(b types.Book) string {
	parts := make([]string, 0, 4)
	for _, s := range []string{b.Title, b.Author, b.Category, b.Description} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Build fits the vectorizer over all books, transforms each book into a
// document vector, and precomputes the pairwise similarity matrix. This
// is the one-time batch step performed before any query is served.
func Build(books []types.Book) *Index {
	docs := make([]string, len(books))
	for i, b := range books {
		docs[i] = corpusText(b)
	}

	v := FitVectorizer(docs)
	vectors := make([]SparseVector, len(books))
	for i, doc := range docs {
		vectors[i] = v.Transform(doc)
	}

	n := len(books)
	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
		sim[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := Dot(vectors[i], vectors[j])
			sim[i][j] = s
			sim[j][i] = s
		}
	}

	return &Index{vec: v, docs: vectors, sim: sim}
}

// FromParts assembles an Index from persisted components. It validates
// that the pieces are internally consistent: one document vector and
// one square matrix row per book.
func FromParts(v *Vectorizer, docs []SparseVector, sim [][]float64) (*Index, error) {
	if len(docs) != len(sim) {
		return nil, fmt.Errorf("index: %d document vectors but %d similarity rows", len(docs), len(sim))
	}
	for i, row := range sim {
		if len(row) != len(sim) {
			return nil, fmt.Errorf("index: similarity row %d has %d entries, want %d", i, len(row), len(sim))
		}
	}
	return &Index{vec: v, docs: docs, sim: sim}, nil
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int { return len(ix.docs) }

// Vectorizer returns the fitted vectorizer, for artifact persistence.
func (ix *Index) Vectorizer() *Vectorizer { return ix.vec }

// DocVector returns the document vector at the given catalog position.
func (ix *Index) DocVector(pos int) SparseVector { return ix.docs[pos] }

// SimilarityRow returns the precomputed similarity scores of the book
// at pos against every book in the catalog (including itself, entry
// pos, which is always 1).
func (ix *Index) SimilarityRow(pos int) ([]float64, error) {
	if pos < 0 || pos >= len(ix.sim) {
		return nil, fmt.Errorf("index: position %d out of range [0, %d)", pos, len(ix.sim))
	}
	return ix.sim[pos], nil
}

// ScoreText transforms free text into the fitted vocabulary space and
// scores it against every document.
func (ix *Index) ScoreText(text string) []float64 {
	return ix.ScoreAll(ix.vec.Transform(text))
}

// ScoreAll computes the cosine similarity of an arbitrary query vector
// against every document. Queries are open-ended so there is nothing to
// precompute here; the scan is O(N) dot products.
func (ix *Index) ScoreAll(query SparseVector) []float64 {
	scores := make([]float64, len(ix.docs))
	if len(query) == 0 {
		return scores
	}
	for i, doc := range ix.docs {
		scores[i] = Dot(query, doc)
	}
	return scores
}
