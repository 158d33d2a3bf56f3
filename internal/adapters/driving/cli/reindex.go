package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

var (
	reindexSources []string
	reindexModel   string
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Regenerate embeddings for indexed content",
	Long: `Re-embeds previously ingested documents from their stored chunk text.
Run this after switching embedding models, or to backfill documents that
were ingested while no embedding provider was configured.`,
	RunE: runReindex,
}

func init() {
	reindexCmd.Flags().StringSliceVarP(&reindexSources, "source", "s", nil, "limit reindexing to these source IDs")
	reindexCmd.Flags().StringVar(&reindexModel, "model", "", "embedding model to write (defaults to the configured model)")
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	if len(reindexSources) > 0 {
		cmd.Printf("Reindexing %d source(s)...\n", len(reindexSources))
	} else {
		cmd.Println("Reindexing all sources...")
	}

	result, err := knowledgeService.Reindex(cmd.Context(), domain.ReindexRequest{
		TenantID:  currentTenant(),
		SourceIDs: reindexSources,
		Model:     reindexModel,
	})
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	cmd.Printf("Reindex complete: %d documents processed, %d embeddings created, %d replaced.\n",
		result.DocumentsProcessed, result.EmbeddingsCreated, result.EmbeddingsUpdated)
	return nil
}
