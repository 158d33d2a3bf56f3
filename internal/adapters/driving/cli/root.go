// Package cli implements the corpora command tree. Commands talk to
// the core exclusively through the driving ports, installed once at
// startup via SetServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// version is the build version reported by the version command.
// Overridden from main at startup.
var version = "dev"

// SetVersion sets the version string reported by the CLI.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Services the commands call. Nil services make the corresponding
// commands fail with a clear error instead of panicking.
var (
	knowledgeService driving.KnowledgeService
	sourceService    driving.SourceService
	settingsService  driving.SettingsService
)

// Services holds the driving ports the CLI commands use.
type Services struct {
	Knowledge driving.KnowledgeService
	Sources   driving.SourceService
	Settings  driving.SettingsService
}

// SetServices installs the service implementations the commands call.
func SetServices(s Services) {
	knowledgeService = s.Knowledge
	sourceService = s.Sources
	settingsService = s.Settings
}

var (
	verboseFlag bool
	tenantFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "corpora",
	Short: "Local-first knowledge base with cited retrieval",
	Long: `Corpora ingests documents into a local knowledge base and answers
free-text queries with ranked, cited results.

Ingest files, directories or URLs, then query them:

  corpora ingest ./docs
  corpora query "how do we rotate credentials?"`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&tenantFlag, "tenant", "", "tenant to operate under (defaults to the configured tenant)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// currentTenant resolves the tenant a command operates under: the
// --tenant flag when given, otherwise the configured default. Empty
// lets the services apply their own default.
func currentTenant() string {
	if tenantFlag != "" {
		return tenantFlag
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			return settings.DefaultTenant
		}
	}
	return ""
}
