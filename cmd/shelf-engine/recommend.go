// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/shelf-engine/internal/catalog"
	"github.com/pdiddy/shelf-engine/internal/covers"
	"github.com/pdiddy/shelf-engine/internal/recommend"
	"github.com/pdiddy/shelf-engine/pkg/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [query]",
	Short: "Recommend books by title similarity, author, or keywords",
	Long: `Recommend queries the loaded catalog bundle. The query type selects
the strategy:

  title     exact title of a catalog book; ranks every other book by
            precomputed content similarity
  author    case-insensitive author substring; ranks matches by rating
  keywords  free text; ranks the catalog by TF-IDF relevance

Category exclusion, year range, and a secondary required-keywords
constraint filter the candidates before the final top-N cut. An unknown
title or author is an error; zero results after filtering is not.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecommend,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()
	ctx := context.Background()

	cat, ix, err := catalog.LoadBundle(ctx, cfg.Catalog)
	if err != nil {
		return err
	}
	engine, err := recommend.NewEngine(cat, ix, cfg.Recommend)
	if err != nil {
		return err
	}

	q := queryFromFlags(cmd, args)
	recs, err := engine.Recommend(q)
	if err != nil {
		return err
	}

	explain, _ := cmd.Flags().GetBool("explain")
	if explain {
		reference := ""
		if q.Type == recommend.QueryTitle {
			reference = q.Text
		}
		engine.Explain(recs, reference)
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := recommend.WriteResultFile(output, q, recs); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved %d results to %s\n", len(recs), output)
	}

	if checkCovers, _ := cmd.Flags().GetBool("check-covers"); checkCovers {
		checker := covers.NewChecker(cfg.Covers)
		for i := range recs {
			recs[i].Book.ImageURL = checker.URL(ctx, recs[i].Book)
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRecommendations(recs, jsonOutput, explain)
}

func queryFromFlags(cmd *cobra.Command, args []string) recommend.Query {
	queryType, _ := cmd.Flags().GetString("type")
	topN, _ := cmd.Flags().GetInt("top")
	excluded, _ := cmd.Flags().GetStringArray("exclude-category")
	yearFrom, _ := cmd.Flags().GetInt("year-from")
	yearTo, _ := cmd.Flags().GetInt("year-to")
	required, _ := cmd.Flags().GetString("require-keywords")

	return recommend.Query{
		Type:              recommend.QueryType(queryType),
		Text:              strings.Join(args, " "),
		TopN:              topN,
		ExcludeCategories: excluded,
		YearFrom:          yearFrom,
		YearTo:            yearTo,
		RequireKeywords:   required,
	}
}

func formatRecommendations(recs []types.Recommendation, jsonOutput, explain bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}

	if len(recs) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-40s  %-24s  %-18s  %-4s  %-6s  %s\n",
		"Rank", "Title", "Author", "Category", "Year", "Score", "Rating")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, rec := range recs {
		b := rec.Book
		title := b.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		author := b.Author
		if len(author) > 24 {
			author = author[:21] + "..."
		}
		category := b.Category
		if len(category) > 18 {
			category = category[:15] + "..."
		}
		year := ""
		if b.Year != 0 {
			year = fmt.Sprintf("%d", b.Year)
		}
		score := ""
		if rec.ScoreKind != types.ScoreNone {
			score = fmt.Sprintf("%.2f", rec.Score)
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-40s  %-24s  %-18s  %-4s  %-6s  %.2f\n",
			i+1, title, author, category, year, score, b.Rating)
		if explain && rec.Explanation != "" {
			fmt.Fprintf(os.Stdout, "      %s\n", rec.Explanation)
		}
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(recs))
	return nil
}

// --- replay subcommand ---

var replayCmd = &cobra.Command{
	Use:   "replay [result file]",
	Short: "Re-run a saved recommendation query",
	Long: `Replay loads a result file written by "recommend --output" and runs
its stored query against the current bundle.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	rf, err := recommend.ReadResultFile(args[0])
	if err != nil {
		return err
	}

	cfg := engineConfig()
	ctx := context.Background()

	cat, ix, err := catalog.LoadBundle(ctx, cfg.Catalog)
	if err != nil {
		return err
	}
	engine, err := recommend.NewEngine(cat, ix, cfg.Recommend)
	if err != nil {
		return err
	}

	recs, err := engine.Recommend(rf.Query.ToQuery())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRecommendations(recs, jsonOutput, false)
}

func init() {
	recommendCmd.Flags().String("type", "title", "query type: title, author, or keywords")
	recommendCmd.Flags().Int("top", 0, "number of results (0 = config default)")
	recommendCmd.Flags().StringArray("exclude-category", nil, "exclude categories containing this string (repeatable)")
	recommendCmd.Flags().Int("year-from", 0, "earliest publication year, inclusive (ignored for author queries)")
	recommendCmd.Flags().Int("year-to", 0, "latest publication year, inclusive (ignored for author queries)")
	recommendCmd.Flags().String("require-keywords", "", "keep only results also relevant to these keywords")
	recommendCmd.Flags().Bool("explain", false, "attach a rationale to each result")
	recommendCmd.Flags().Bool("check-covers", false, "validate cover URLs and substitute a placeholder for broken ones")
	recommendCmd.Flags().Bool("json", false, "output results as JSON")
	recommendCmd.Flags().String("output", "", "save query and results to a YAML file")

	replayCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(replayCmd)
}
