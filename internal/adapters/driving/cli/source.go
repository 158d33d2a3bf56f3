package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

var (
	sourceAddKind      string
	sourceAddURL       string
	sourceAddTags      []string
	sourceAddFrequency time.Duration
	sourceAddMaxDepth  int
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage document sources",
	Long:  `Add, list, inspect, import or remove the sources documents are ingested under.`,
}

var sourceAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new source",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceAdd,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	RunE:  runSourceList,
}

var sourceShowCmd = &cobra.Command{
	Use:   "show [source-id]",
	Short: "Show source details",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceShow,
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove [source-id]",
	Short: "Remove a source and everything indexed under it",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceRemove,
}

var sourceDisableCmd = &cobra.Command{
	Use:   "disable [source-id]",
	Short: "Exclude a source from ingestion",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceDisable,
}

var sourceEnableCmd = &cobra.Command{
	Use:   "enable [source-id]",
	Short: "Re-enable a disabled source",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceEnable,
}

var sourceImportCmd = &cobra.Command{
	Use:   "import [manifest.yaml]",
	Short: "Bulk-define sources from a YAML manifest",
	Long: `Creates the sources listed in a YAML manifest:

  sources:
    - name: engineering-docs
      kind: document
      tags: [docs]
    - name: blog
      kind: url
      url: https://example.com/blog
      frequency: 24h
      max_depth: 2`,
	Args: cobra.ExactArgs(1),
	RunE: runSourceImport,
}

func init() {
	sourceAddCmd.Flags().StringVar(&sourceAddKind, "kind", "", "source kind: document or url (inferred from --url when unset)")
	sourceAddCmd.Flags().StringVar(&sourceAddURL, "url", "", "crawl URL for url sources")
	sourceAddCmd.Flags().StringSliceVar(&sourceAddTags, "tag", nil, "tags to label the source with")
	sourceAddCmd.Flags().DurationVar(&sourceAddFrequency, "frequency", 0, "re-crawl frequency for url sources (0 = on demand)")
	sourceAddCmd.Flags().IntVar(&sourceAddMaxDepth, "max-depth", 0, "crawl depth limit for url sources")

	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceShowCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	sourceCmd.AddCommand(sourceDisableCmd)
	sourceCmd.AddCommand(sourceEnableCmd)
	sourceCmd.AddCommand(sourceImportCmd)
	rootCmd.AddCommand(sourceCmd)
}

func runSourceAdd(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	kind := domain.SourceKind(sourceAddKind)
	if sourceAddKind == "" {
		kind = domain.SourceKindDocument
		if sourceAddURL != "" {
			kind = domain.SourceKindURL
		}
	}

	source, err := sourceService.Add(cmd.Context(), domain.Source{
		TenantID: currentTenant(),
		Name:     args[0],
		Kind:     kind,
		Tags:     sourceAddTags,
		Crawl: domain.CrawlConfig{
			URL:       sourceAddURL,
			Frequency: sourceAddFrequency,
			MaxDepth:  sourceAddMaxDepth,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to add source: %w", err)
	}

	cmd.Printf("Added source: %s (%s)\n", source.ID, source.Name)
	return nil
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	sources, err := sourceService.List(cmd.Context(), currentTenant())
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No configured sources.")
		return nil
	}

	cmd.Println("Configured sources:")
	cmd.Println()
	for i := range sources {
		s := &sources[i]
		cmd.Printf("  %s\n", s.ID)
		cmd.Printf("    Name:   %s (%s, %s)\n", s.Name, s.Kind, s.Status)
		cmd.Printf("    Stats:  %d documents, %d chunks, %d tokens\n",
			s.Stats.DocumentCount, s.Stats.ChunkCount, s.Stats.TokenCount)
		if len(s.Tags) > 0 {
			cmd.Printf("    Tags:   %v\n", s.Tags)
		}
		if s.Status == domain.SourceStatusError && s.LastError != "" {
			cmd.Printf("    Error:  %s\n", s.LastError)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d sources\n", len(sources))
	return nil
}

func runSourceShow(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	source, err := sourceService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get source: %w", err)
	}

	cmd.Printf("Source: %s\n\n", source.ID)
	cmd.Printf("  Name:     %s\n", source.Name)
	cmd.Printf("  Kind:     %s\n", source.Kind)
	cmd.Printf("  Status:   %s\n", source.Status)
	if source.LastError != "" {
		cmd.Printf("  Error:    %s\n", source.LastError)
	}
	if source.Kind == domain.SourceKindURL {
		cmd.Printf("  URL:      %s\n", source.Crawl.URL)
		if source.Crawl.Frequency > 0 {
			cmd.Printf("  Crawl:    every %s, depth %d\n", source.Crawl.Frequency, source.Crawl.MaxDepth)
		}
	}
	cmd.Printf("  Stats:    %d documents, %d chunks, %d tokens\n",
		source.Stats.DocumentCount, source.Stats.ChunkCount, source.Stats.TokenCount)
	if len(source.Tags) > 0 {
		cmd.Printf("  Tags:     %v\n", source.Tags)
	}
	cmd.Printf("  Created:  %s\n", source.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:  %s\n", source.UpdatedAt.Format("2006-01-02 15:04:05"))

	if len(source.Metadata) > 0 {
		cmd.Println("\n  Metadata:")
		for k, v := range source.Metadata {
			cmd.Printf("    %s: %v\n", k, v)
		}
	}

	return nil
}

func runSourceRemove(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	if err := sourceService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove source: %w", err)
	}

	cmd.Printf("Removed source: %s\n", args[0])
	return nil
}

func runSourceDisable(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	if err := sourceService.SetStatus(cmd.Context(), args[0], domain.SourceStatusDisabled, ""); err != nil {
		return fmt.Errorf("failed to disable source: %w", err)
	}

	cmd.Printf("Disabled source: %s\n", args[0])
	return nil
}

func runSourceEnable(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	if err := sourceService.SetStatus(cmd.Context(), args[0], domain.SourceStatusPending, ""); err != nil {
		return fmt.Errorf("failed to enable source: %w", err)
	}

	cmd.Printf("Enabled source: %s\n", args[0])
	return nil
}

// sourceManifest is the YAML shape corpora source import reads.
type sourceManifest struct {
	Sources []manifestSource `yaml:"sources"`
}

type manifestSource struct {
	Name      string         `yaml:"name"`
	Kind      string         `yaml:"kind"`
	URL       string         `yaml:"url"`
	Frequency string         `yaml:"frequency"`
	MaxDepth  int            `yaml:"max_depth"`
	Tags      []string       `yaml:"tags"`
	Metadata  map[string]any `yaml:"metadata"`
}

func runSourceImport(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	var manifest sourceManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	if len(manifest.Sources) == 0 {
		return errors.New("manifest defines no sources")
	}

	tenant := currentTenant()
	added := 0
	for _, entry := range manifest.Sources {
		source, buildErr := entry.toDomain(tenant)
		if buildErr != nil {
			cmd.Printf("Skipping %q: %v\n", entry.Name, buildErr)
			continue
		}

		created, addErr := sourceService.Add(cmd.Context(), source)
		if addErr != nil {
			cmd.Printf("Skipping %q: %v\n", entry.Name, addErr)
			continue
		}
		cmd.Printf("Added source: %s (%s)\n", created.ID, created.Name)
		added++
	}

	if added == 0 {
		return errors.New("failed to import manifest: no sources could be added")
	}
	cmd.Printf("\nImported %d of %d sources.\n", added, len(manifest.Sources))
	return nil
}

func (m manifestSource) toDomain(tenant string) (domain.Source, error) {
	kind := domain.SourceKind(m.Kind)
	if m.Kind == "" {
		kind = domain.SourceKindDocument
		if m.URL != "" {
			kind = domain.SourceKindURL
		}
	}

	var frequency time.Duration
	if m.Frequency != "" {
		parsed, err := time.ParseDuration(m.Frequency)
		if err != nil {
			return domain.Source{}, fmt.Errorf("invalid frequency %q: %w", m.Frequency, err)
		}
		frequency = parsed
	}

	return domain.Source{
		TenantID: tenant,
		Name:     m.Name,
		Kind:     kind,
		Tags:     m.Tags,
		Metadata: m.Metadata,
		Crawl: domain.CrawlConfig{
			URL:       m.URL,
			Frequency: frequency,
			MaxDepth:  m.MaxDepth,
		},
	}, nil
}
