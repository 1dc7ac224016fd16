// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/shelf-engine/pkg/types"
)

// ResultFile is the on-disk representation of one recommendation run.
// A user can save a run to a file and reload it later without
// re-querying the engine.
type ResultFile struct {
	Query   QueryParams            `yaml:"query"`
	Results []types.Recommendation `yaml:"results"`
	Summary ResultSummary          `yaml:"summary"`
}

// QueryParams stores the query in a serializable form.
type QueryParams struct {
	Type              string   `yaml:"type"`
	Text              string   `yaml:"text"`
	TopN              int      `yaml:"top_n,omitempty"`
	ExcludeCategories []string `yaml:"exclude_categories,omitempty"`
	YearFrom          int      `yaml:"year_from,omitempty"`
	YearTo            int      `yaml:"year_to,omitempty"`
	RequireKeywords   string   `yaml:"require_keywords,omitempty"`
}

// ResultSummary stores result statistics and a timestamp.
type ResultSummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteResultFile saves a query and its recommendations to a YAML file.
func WriteResultFile(path string, q Query, recs []types.Recommendation) error {
	rf := ResultFile{
		Query: QueryParams{
			Type:              string(q.Type),
			Text:              q.Text,
			TopN:              q.TopN,
			ExcludeCategories: q.ExcludeCategories,
			YearFrom:          q.YearFrom,
			YearTo:            q.YearTo,
			RequireKeywords:   q.RequireKeywords,
		},
		Results: recs,
		Summary: ResultSummary{
			Total:     len(recs),
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}

// ToQuery converts stored QueryParams back into a Query.
func (p QueryParams) ToQuery() Query {
	return Query{
		Type:              QueryType(p.Type),
		Text:              p.Text,
		TopN:              p.TopN,
		ExcludeCategories: p.ExcludeCategories,
		YearFrom:          p.YearFrom,
		YearTo:            p.YearTo,
		RequireKeywords:   p.RequireKeywords,
	}
}
