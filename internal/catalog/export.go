// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes the stored book table to path as YAML, in catalog
// order.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	books, err := s.readBooks(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(books)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the stored book table to path as indented JSON, in
// catalog order.
func (s *Store) ExportJSON(ctx context.Context, path string) error {
	books, err := s.readBooks(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
