package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/watch"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [source-id]",
	Short: "Re-ingest documents as they change on disk",
	Long: `Watches the directory a document source was ingested from and re-ingests
files as they are created or modified. Write bursts are debounced so one
save produces one ingestion. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before a change is ingested")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	source, err := sourceService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get source %s: %w", args[0], err)
	}
	if source.Kind != domain.SourceKindDocument {
		return fmt.Errorf("source %s is a %s source, only document sources can be watched", source.ID, source.Kind)
	}
	root, _ := source.Metadata["root_path"].(string)
	if root == "" {
		return fmt.Errorf("source %s has no recorded ingest path, ingest a directory under it first", source.ID)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	watcher := watch.NewWatcher(watch.Config{Debounce: watchDebounce})
	defer watcher.Close()

	events, err := watcher.Watch(ctx, root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}

	cmd.Printf("Watching %s (source %s). Press Ctrl+C to stop.\n", root, source.ID)

	ingested := 0
	failed := 0
	for ev := range events {
		rel := displayPath(root, ev.Path)

		if ev.Type == watch.EventDeleted {
			// No unlink operation on the pipeline; the stored copy
			// goes stale until the source is re-ingested or removed.
			cmd.Printf("  %s: deleted on disk, stored copy kept\n", rel)
			continue
		}

		result, ingestErr := reingestFile(ctx, source, rel, ev.Path)
		switch {
		case errors.Is(ingestErr, domain.ErrUnsupportedType), errors.Is(ingestErr, domain.ErrEmptyContent):
			logger.Debug("skipped %s: %v", rel, ingestErr)
		case os.IsNotExist(ingestErr):
			// Removed again before the debounce window flushed.
			logger.Debug("vanished before ingestion: %s", rel)
		case ingestErr != nil:
			failed++
			cmd.Printf("  %s: %v\n", rel, ingestErr)
		case result.Deduplicated:
			cmd.Printf("  %s: unchanged\n", rel)
		default:
			ingested++
			cmd.Printf("  %s: ingested (%d chunks)\n", rel, result.ChunksCreated)
		}
	}

	cmd.Printf("\nStopped watching: %d ingested, %d failed.\n", ingested, failed)
	return nil
}

func reingestFile(ctx context.Context, source *domain.Source, rel, path string) (*domain.IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return knowledgeService.Ingest(ctx, domain.IngestRequest{
		TenantID: source.TenantID,
		SourceID: source.ID,
		FileName: rel,
		Data:     data,
	})
}

func displayPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
