package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/adapters/driven/fswalk"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

var (
	ingestSourceID string
	ingestName     string
	ingestInclude  []string
	ingestExclude  []string
	ingestTitle    string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path|url]",
	Short: "Ingest a file, directory or URL",
	Long: `Ingests documents into the knowledge base.

A path is walked recursively; include and exclude patterns use
doublestar globs matched against paths relative to the root:

  corpora ingest ./docs --include '**/*.md' --exclude '**/drafts/**'

An http(s) URL is fetched and ingested as a single document. Without
--source, a source is created for the root (or reused when the same
root was ingested before).`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestSourceID, "source", "s", "", "ingest into an existing source ID")
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "name for a newly created source")
	ingestCmd.Flags().StringSliceVar(&ingestInclude, "include", nil, "glob patterns of files to include (default all)")
	ingestCmd.Flags().StringSliceVar(&ingestExclude, "exclude", nil, "glob patterns of files to exclude")
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "title override for single-document ingestion")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	target := args[0]
	if isURL(target) {
		return ingestURL(cmd, target)
	}
	return ingestPath(cmd, strings.TrimPrefix(target, "file://"))
}

func ingestURL(cmd *cobra.Command, rawURL string) error {
	ctx := cmd.Context()
	tenant := currentTenant()

	source, err := resolveURLSource(ctx, tenant, rawURL)
	if err != nil {
		return err
	}

	cmd.Printf("Fetching %s...\n", rawURL)
	result, err := knowledgeService.Ingest(ctx, domain.IngestRequest{
		TenantID: tenant,
		SourceID: source.ID,
		URL:      rawURL,
		Title:    ingestTitle,
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	printIngestResult(cmd, result)
	printSourceStats(ctx, cmd, source.ID)
	return nil
}

func ingestPath(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	tenant := currentTenant()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	excludes := ingestExclude
	if len(excludes) == 0 {
		excludes = fswalk.DefaultExcludes
	}
	walker := fswalk.NewWalker(fswalk.Config{
		Includes: ingestInclude,
		Excludes: excludes,
	})

	files, err := walker.Walk(ctx, absPath)
	if err != nil {
		return fmt.Errorf("walk %s: %w", absPath, err)
	}
	if len(files) == 0 {
		cmd.Println("No files matched.")
		return nil
	}

	source, err := resolveDocumentSource(ctx, tenant, absPath)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if len(files) > 1 {
		cmd.Printf("Ingesting %d files from %s\n", len(files), absPath)
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Ingesting"),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(cmd.ErrOrStderr())
			}),
		)
	}

	var created, deduplicated, skipped, failed int
	var chunks, embeddings int
	var failures []string

	for _, f := range files {
		req := domain.IngestRequest{
			TenantID: tenant,
			SourceID: source.ID,
			FileName: f.RelPath,
		}
		if len(files) == 1 {
			req.Title = ingestTitle
		}

		data, readErr := os.ReadFile(f.Path)
		if readErr != nil {
			failed++
			failures = appendFailure(failures, f.RelPath, readErr)
			continue
		}
		req.Data = data

		result, ingestErr := knowledgeService.Ingest(ctx, req)
		switch {
		case ingestErr == nil && result.Deduplicated:
			deduplicated++
		case ingestErr == nil:
			created++
			chunks += result.ChunksCreated
			embeddings += result.EmbeddingsCreated
		case errors.Is(ingestErr, domain.ErrUnsupportedType),
			errors.Is(ingestErr, domain.ErrEmptyContent):
			skipped++
			logger.Debug("skipping %s: %v", f.RelPath, ingestErr)
		default:
			failed++
			failures = appendFailure(failures, f.RelPath, ingestErr)
			logger.Warn("ingest %s: %v", f.RelPath, ingestErr)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	cmd.Println("Ingestion complete:")
	cmd.Printf("  Documents created:  %d\n", created)
	if deduplicated > 0 {
		cmd.Printf("  Already ingested:   %d\n", deduplicated)
	}
	if skipped > 0 {
		cmd.Printf("  Skipped:            %d (unsupported or empty)\n", skipped)
	}
	if failed > 0 {
		cmd.Printf("  Failed:             %d\n", failed)
	}
	cmd.Printf("  Chunks created:     %d\n", chunks)
	cmd.Printf("  Embeddings created: %d\n", embeddings)
	for _, failure := range failures {
		cmd.Printf("  error: %s\n", failure)
	}

	printSourceStats(ctx, cmd, source.ID)

	if failed > 0 && created == 0 && deduplicated == 0 {
		return fmt.Errorf("ingest failed: %d of %d files errored", failed, len(files))
	}
	return nil
}

// resolveDocumentSource finds the source to ingest a path under:
// the --source flag, an existing source for the same root, or a new
// one. The root is remembered in source metadata so re-ingesting and
// watching the same tree reuse it.
func resolveDocumentSource(ctx context.Context, tenant, absPath string) (*domain.Source, error) {
	if ingestSourceID != "" {
		source, err := sourceService.Get(ctx, ingestSourceID)
		if err != nil {
			return nil, fmt.Errorf("get source %s: %w", ingestSourceID, err)
		}
		return source, nil
	}

	sources, err := sourceService.List(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	for i := range sources {
		if sources[i].Kind != domain.SourceKindDocument {
			continue
		}
		if root, _ := sources[i].Metadata["root_path"].(string); root == absPath {
			return &sources[i], nil
		}
	}

	name := ingestName
	if name == "" {
		name = filepath.Base(absPath)
	}
	source, err := sourceService.Add(ctx, domain.Source{
		TenantID: tenant,
		Name:     name,
		Kind:     domain.SourceKindDocument,
		Metadata: map[string]any{"root_path": absPath},
	})
	if err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}
	return source, nil
}

// resolveURLSource finds or creates the source for a URL ingestion.
func resolveURLSource(ctx context.Context, tenant, rawURL string) (*domain.Source, error) {
	if ingestSourceID != "" {
		source, err := sourceService.Get(ctx, ingestSourceID)
		if err != nil {
			return nil, fmt.Errorf("get source %s: %w", ingestSourceID, err)
		}
		return source, nil
	}

	sources, err := sourceService.List(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	for i := range sources {
		if sources[i].Kind == domain.SourceKindURL && sources[i].Crawl.URL == rawURL {
			return &sources[i], nil
		}
	}

	name := ingestName
	if name == "" {
		if parsed, parseErr := url.Parse(rawURL); parseErr == nil && parsed.Host != "" {
			name = parsed.Host
		} else {
			name = rawURL
		}
	}
	source, err := sourceService.Add(ctx, domain.Source{
		TenantID: tenant,
		Name:     name,
		Kind:     domain.SourceKindURL,
		Crawl:    domain.CrawlConfig{URL: rawURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}
	return source, nil
}

func printIngestResult(cmd *cobra.Command, result *domain.IngestResult) {
	if result.Deduplicated {
		cmd.Printf("Already ingested as %q (document %s), nothing new written.\n",
			result.Document.Title, result.Document.ID)
		return
	}
	cmd.Printf("Ingested %q: %d chunks, %d embeddings.\n",
		result.Document.Title, result.ChunksCreated, result.EmbeddingsCreated)
}

// printSourceStats refreshes and prints the source rollup. Best effort,
// the ingestion itself already succeeded.
func printSourceStats(ctx context.Context, cmd *cobra.Command, sourceID string) {
	source, err := sourceService.RefreshStats(ctx, sourceID)
	if err != nil {
		logger.Warn("refresh stats for %s: %v", sourceID, err)
		return
	}
	cmd.Printf("Source %q: %d documents, %d chunks, %d tokens.\n",
		source.Name, source.Stats.DocumentCount, source.Stats.ChunkCount, source.Stats.TokenCount)
}

func appendFailure(failures []string, relPath string, err error) []string {
	// Keep the report short, verbose mode logs every failure.
	if len(failures) >= 5 {
		return failures
	}
	return append(failures, fmt.Sprintf("%s: %v", relPath, err))
}

func isURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}
