package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

var (
	queryLimit         int
	queryJSON          bool
	queryModel         string
	querySources       []string
	queryMinSimilarity float64
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Query the knowledge base",
	Long: `Answers a free-text question with ranked, cited results.
Uses embedding similarity when an embedding provider is configured and
falls back to lexical matching otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 10, "maximum number of results")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	queryCmd.Flags().StringVar(&queryModel, "model", "", "embedding model to query under (defaults to the configured model)")
	queryCmd.Flags().StringSliceVar(&querySources, "source", nil, "restrict results to the given source IDs")
	queryCmd.Flags().Float64Var(&queryMinSimilarity, "min-similarity", 0, "similarity floor for vector candidates (defaults to the configured floor)")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	opts := domain.QueryOptions{
		TenantID:      currentTenant(),
		Model:         queryModel,
		SourceIDs:     querySources,
		Limit:         queryLimit,
		MinSimilarity: queryMinSimilarity,
	}
	if opts.MinSimilarity == 0 && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			opts.MinSimilarity = settings.MinSimilarity
		}
	}

	results, err := knowledgeService.Query(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, results)
	}
	return outputQueryText(cmd, results)
}

func outputQueryJSON(cmd *cobra.Command, results []domain.QueryResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryText(cmd *cobra.Command, results []domain.QueryResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	mode, _ := results[0].Metadata["search_mode"].(string)
	if mode == string(domain.SearchModeTextFallback) {
		cmd.Println("Results (lexical fallback):")
	} else {
		cmd.Println("Results:")
	}
	cmd.Println()

	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, r.Citation.Text, r.RelevanceScore)
		if r.Citation.Snippet != "" {
			cmd.Printf("      %s\n", r.Citation.Snippet)
		} else if r.ContentPreview != "" {
			cmd.Printf("      %s\n", r.ContentPreview)
		}
		cmd.Printf("      confidence %.2f\n", r.Citation.Confidence)
		cmd.Println()
	}

	return nil
}
