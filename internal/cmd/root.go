package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/Belphemur/TVApi/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tvapi",
	Short: "TV show metadata provider backed by the TVApi catalog mirrors",
	Long: `tvapi browses the TVApi show catalog, falling back across the configured
mirrors, and optionally translates show details through TheTVDB.

Run "tvapi serve" to expose the provider over HTTP and gRPC, or use the fetch,
detail and random commands to query the catalog from the terminal.`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

var (
	language string
	apiURLs  []string
	uniqueID string
	noEnrich bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&language, "language", "l", "", "Translate details into this language (enables translation)")
	rootCmd.PersistentFlags().StringSliceVar(&apiURLs, "api-url", nil, "Catalog mirror, repeatable; overrides api_url")
	rootCmd.PersistentFlags().StringVar(&uniqueID, "unique-id", "", "Identifier field exposed to hosts: tvdb_id or imdb_id")
	rootCmd.PersistentFlags().BoolVar(&noEnrich, "no-translate", false, "Disable translation even when configured")
}

// effectiveConfig returns a copy of the loaded configuration with the
// command line overrides applied.
func effectiveConfig(cmd *cobra.Command) *config.Config {
	cfg := *config.GetConfig()

	flags := cmd.Flags()
	if flags.Changed("language") {
		cfg.Language = language
		cfg.Translate = true
	}
	if flags.Changed("api-url") {
		cfg.APIURLs = apiURLs
	}
	if flags.Changed("unique-id") {
		cfg.UniqueID = uniqueID
	}
	if noEnrich {
		cfg.Translate = false
	}
	return &cfg
}
