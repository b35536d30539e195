package cmd

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/Belphemur/TVApi/internal/models"
)

var fetchFilters models.Filters
var fetchIDsOnly bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "List one page of shows",
	Long: `Fetch one page of the catalog and print it as JSON.

Filters map onto the catalog query: --keywords searches titles, --genre
restricts to one genre, --sorter picks the sort field and --order its direction.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

var detailTvdbID string
var detailDebug bool

var detailCmd = &cobra.Command{
	Use:   "detail <id>",
	Short: "Show the full record of one show",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetail,
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Show the full record of a random show",
	Args:  cobra.NoArgs,
	RunE:  runRandom,
}

func init() {
	fetchCmd.Flags().IntVarP(&fetchFilters.Page, "page", "p", 1, "Page number, starting at 1")
	fetchCmd.Flags().StringVarP(&fetchFilters.Keywords, "keywords", "k", "", "Search keywords")
	fetchCmd.Flags().StringVarP(&fetchFilters.Genre, "genre", "g", "", "Genre filter")
	fetchCmd.Flags().StringVar(&fetchFilters.Sorter, "sorter", "", "Sort field (popularity, rating, trending, ...)")
	fetchCmd.Flags().StringVar(&fetchFilters.Order, "order", "", "Sort order (1 or -1)")
	fetchCmd.Flags().BoolVar(&fetchIDsOnly, "ids", false, "Print only the unique ids of the page")

	detailCmd.Flags().StringVar(&detailTvdbID, "tvdb-id", "", "TVDB id from the list record, used for translation when the detail has none")
	detailCmd.Flags().BoolVar(&detailDebug, "debug", false, "Log translation steps at info level")

	rootCmd.AddCommand(fetchCmd, detailCmd, randomCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	rt, err := newApp(cmd.Context(), effectiveConfig(cmd))
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.provider.Fetch(cmd.Context(), fetchFilters)
	if err != nil {
		return err
	}
	if fetchIDsOnly {
		return printJSON(cmd.OutOrStdout(), rt.provider.ExtractIDs(result))
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func runDetail(cmd *cobra.Command, args []string) error {
	rt, err := newApp(cmd.Context(), effectiveConfig(cmd))
	if err != nil {
		return err
	}
	defer rt.Close()

	var previous *models.Show
	if detailTvdbID != "" {
		previous = &models.Show{TvdbID: detailTvdbID}
	}

	show, err := rt.provider.Detail(cmd.Context(), args[0], previous, detailDebug)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), show)
}

func runRandom(cmd *cobra.Command, args []string) error {
	rt, err := newApp(cmd.Context(), effectiveConfig(cmd))
	if err != nil {
		return err
	}
	defer rt.Close()

	show, err := rt.provider.Random(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), show)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
