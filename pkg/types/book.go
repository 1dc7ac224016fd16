// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the shelf-engine
// recommendation pipeline.
package types

// Book is one immutable row of the catalog. Position is the row index
// assigned at load time; Title doubles as the lookup key for title
// queries and is assumed unique within a catalog.
type Book struct {
	// Position is the zero-based row index within the catalog.
	Position int `json:"position" yaml:"position"`

	// Title is the book title, used as the title-query lookup key.
	Title string `json:"title" yaml:"title"`

	// Author is the author name as it appears in the source data.
	Author string `json:"author" yaml:"author"`

	// Category is the genre/category label (e.g. "Science Fiction").
	Category string `json:"category" yaml:"category"`

	// Year is the publication year. Zero means missing.
	Year int `json:"year" yaml:"year"`

	// Rating is the average reader rating.
	Rating float64 `json:"rating" yaml:"rating"`

	// Description is the free-text field the similarity index is built
	// from (summary, back-cover text, or similar).
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// ImageURL is an optional cover image URL.
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// ScoreKind tags which score a Recommendation carries. Title queries
// produce similarity scores, keyword queries produce relevance scores,
// and author queries carry no score (ranked by rating instead).
type ScoreKind string

const (
	ScoreSimilarity ScoreKind = "similarity"
	ScoreRelevance  ScoreKind = "relevance"
	ScoreNone       ScoreKind = "none"
)

// Recommendation is one ranked result: a Book plus at most one score,
// tagged by ScoreKind, and an optional human-readable explanation.
type Recommendation struct {
	Book Book `json:"book" yaml:"book"`

	// ScoreKind identifies which score field Score holds. When it is
	// ScoreNone the Score value is meaningless.
	ScoreKind ScoreKind `json:"score_kind" yaml:"score_kind"`

	// Score is a value in [0.0, 1.0] for similarity and relevance kinds.
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`

	// Explanation is a descriptive rationale attached by the explanation
	// generator. It never affects ranking or filtering.
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}
