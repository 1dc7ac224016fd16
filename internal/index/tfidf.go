// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index builds and queries the TF-IDF vector space over the
// catalog text field, including the precomputed pairwise cosine
// similarity matrix used by title lookups.
package index

import (
	"math"
	"regexp"
	"strings"
)

// tokenRe matches word tokens of two or more characters, mirroring the
// vectorizer the similarity artifact was originally fitted with.
var tokenRe = regexp.MustCompile(`[a-z0-9][a-z0-9]+`)

// tokenize lowercases text and splits it into word tokens. Single
// characters and punctuation are dropped.
func tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

// SparseVector maps vocabulary term index to TF-IDF weight. Vectors
// produced by the Vectorizer are L2-normalized, so the dot product of
// two vectors is their cosine similarity.
type SparseVector map[int]float64

// Dot returns the dot product of two sparse vectors.
func Dot(a, b SparseVector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for i, w := range a {
		sum += w * b[i]
	}
	return sum
}

// Vectorizer holds the vocabulary and smoothed IDF weights fitted from
// the catalog corpus. It is read-only after fitting.
type Vectorizer struct {
	vocab []string       // term index → term
	terms map[string]int // term → term index
	idf   []float64      // term index → inverse document frequency
}

// FitVectorizer learns the vocabulary and IDF weights from the corpus.
// IDF uses the smoothed formula ln((1+N)/(1+df)) + 1 so that terms
// present in every document still contribute.
func FitVectorizer(docs []string) *Vectorizer {
	v := &Vectorizer{terms: make(map[string]int)}

	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range tokenize(doc) {
			if seen[tok] {
				continue
			}
			seen[tok] = true
			docFreq[tok]++
			if _, ok := v.terms[tok]; !ok {
				v.terms[tok] = len(v.vocab)
				v.vocab = append(v.vocab, tok)
			}
		}
	}

	n := float64(len(docs))
	v.idf = make([]float64, len(v.vocab))
	for term, idx := range v.terms {
		v.idf[idx] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	return v
}

// VocabSize returns the number of terms in the fitted vocabulary.
func (v *Vectorizer) VocabSize() int { return len(v.vocab) }

// Transform converts arbitrary text into an L2-normalized TF-IDF vector
// in the fitted vocabulary space. Terms unseen at fit time are ignored;
// text with no vocabulary overlap yields an empty vector.
func (v *Vectorizer) Transform(text string) SparseVector {
	vec := make(SparseVector)
	for _, tok := range tokenize(text) {
		if idx, ok := v.terms[tok]; ok {
			vec[idx]++
		}
	}
	if len(vec) == 0 {
		return vec
	}

	var norm float64
	for idx := range vec {
		vec[idx] *= v.idf[idx]
		norm += vec[idx] * vec[idx]
	}
	norm = math.Sqrt(norm)
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}

// Term returns the vocabulary term at the given index, for artifact
// persistence.
func (v *Vectorizer) Term(idx int) string { return v.vocab[idx] }

// IDF returns the inverse document frequency at the given term index.
func (v *Vectorizer) IDF(idx int) float64 { return v.idf[idx] }

// NewVectorizer reconstructs a fitted Vectorizer from persisted terms
// and IDF weights, in term-index order.
func NewVectorizer(terms []string, idf []float64) *Vectorizer {
	v := &Vectorizer{vocab: terms, idf: idf, terms: make(map[string]int, len(terms))}
	for i, t := range terms {
		v.terms[t] = i
	}
	return v
}
