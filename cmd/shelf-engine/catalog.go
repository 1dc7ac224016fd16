// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/shelf-engine/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the catalog artifact bundle (import, build, info, export)",
	Long: `Catalog manages the SQLite artifact bundle the engine is loaded from:
the book table, the fitted TF-IDF vectorizer, the document vectors, and
the pairwise similarity matrix.`,
}

// --- import subcommand ---

var catalogImportCmd = &cobra.Command{
	Use:   "import [csv file]",
	Short: "Import a books CSV into the catalog bundle",
	Long: `Import reads a books CSV (title, author, category, year, rating,
description, image URL) and replaces the bundle's book table. Any
previously built index is cleared; run "catalog build" afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()

	books, summary, err := catalog.ReadCSV(args[0], os.Stdout)
	if err != nil {
		return err
	}
	if summary.Skipped > 0 {
		fmt.Printf("skipped %d of %d rows\n", summary.Skipped, summary.Total())
	}

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ImportBooks(context.Background(), books); err != nil {
		return err
	}
	fmt.Printf("imported %d books into %s\n", summary.Imported, cfg.Catalog.Path)
	return nil
}

// --- build subcommand ---

var catalogBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the similarity index over the imported books",
	Long: `Build fits the TF-IDF vectorizer over the imported book table,
computes one document vector per book and the pairwise cosine
similarity matrix, and persists all of it into the bundle. This is a
one-time batch step; queries are served only from a fully built bundle.`,
	RunE: runCatalogBuild,
}

func runCatalogBuild(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.BuildIndex(context.Background(), os.Stdout); err != nil {
		return err
	}
	fmt.Println("index built")
	return nil
}

// --- info subcommand ---

var catalogInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show bundle contents and build status",
	RunE:  runCatalogInfo,
}

func runCatalogInfo(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	info, err := store.Info(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("bundle:     %s\n", cfg.Catalog.Path)
	fmt.Printf("books:      %d\n", info.Books)
	fmt.Printf("vocabulary: %d terms\n", info.VocabSize)
	fmt.Printf("index rows: %d\n", info.IndexedRows)
	if info.BuiltAt != "" {
		fmt.Printf("built at:   %s\n", info.BuiltAt)
	} else {
		fmt.Println("built at:   (index not built)")
	}
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export [output file]",
	Short: "Export the book table to YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	cfg := engineConfig()

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	switch format {
	case "yaml", "":
		err = store.ExportYAML(context.Background(), args[0])
	case "json":
		err = store.ExportJSON(context.Background(), args[0])
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", args[0])
	return nil
}

func init() {
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogBuildCmd)
	catalogCmd.AddCommand(catalogInfoCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
