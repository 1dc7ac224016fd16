// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by collaborators that make
// network requests (cover-image validation).
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "shelf-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CatalogConfig holds settings for the catalog artifact store.
type CatalogConfig struct {
	// Path is the SQLite artifact bundle file (catalog table, fitted
	// vectorizer, document vectors, similarity matrix).
	Path string `json:"path" yaml:"path"`
}

// RecommendConfig holds settings for the recommendation engine.
type RecommendConfig struct {
	// MaxResults is the default number of recommendations per query
	// (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// CoversConfig holds settings for cover-image URL validation.
type CoversConfig struct {
	HTTPConfig `yaml:",inline"`
}

// EngineConfig groups all configuration for the CLI.
type EngineConfig struct {
	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog"`
	Recommend RecommendConfig `json:"recommend" yaml:"recommend"`
	Covers    CoversConfig    `json:"covers" yaml:"covers"`
}
