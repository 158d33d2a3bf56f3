package cli

import (
	"errors"
	"sort"

	"github.com/spf13/cobra"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Show supported formats and embedding status",
	Long: `Reports which document formats the running pipeline can extract and
whether vector search is available.`,
	RunE: runCapabilities,
}

func init() {
	rootCmd.AddCommand(capabilitiesCmd)
}

func runCapabilities(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	caps := knowledgeService.Capabilities(cmd.Context())

	cmd.Println("Pipeline Capabilities")
	cmd.Println("=====================")
	cmd.Println()

	cmd.Println("[Formats]")
	formats := make([]string, 0, len(caps.Formats))
	for format := range caps.Formats {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	for _, format := range formats {
		state := "available"
		if !caps.Formats[format] {
			state = "unavailable"
		}
		cmd.Printf("  %s: %s\n", format, state)
	}
	cmd.Println()

	cmd.Println("[Embedding]")
	if caps.EmbeddingModel != "" {
		cmd.Printf("  Model: %s\n", caps.EmbeddingModel)
		cmd.Printf("  Dimensions: %d\n", caps.EmbeddingDimensions)
	} else {
		cmd.Println("  Model: (not configured)")
	}
	if caps.VectorSearch {
		cmd.Println("  Vector search: enabled")
	} else {
		cmd.Println("  Vector search: disabled (queries fall back to lexical matching)")
	}

	return nil
}
