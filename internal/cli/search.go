package cli

import (
	"fmt"
	"strings"

	"github.com/rohmanhakim/vertexcrawl/internal/ranker"
	"github.com/rohmanhakim/vertexcrawl/internal/storage/memstore"
	"github.com/spf13/cobra"
)

var flagSearchLimit int

func newSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Rank indexed pages against a query with BM25",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}
	cmd.Flags().StringVar(&flagIndexPath, "index", "crawler_states/index.json", "index snapshot path")
	cmd.Flags().IntVar(&flagSearchLimit, "limit", 10, "maximum results to print")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	sink, ok, err := memstore.LoadSnapshot(flagIndexPath)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no index found at %s — run `crawl` first", flagIndexPath)
	}

	results, err := ranker.Score(sink, query, nil, ranker.NoopSummarizer{}, ranker.DefaultParams)
	if err != nil {
		return err
	}
	if len(results) > flagSearchLimit {
		results = results[:flagSearchLimit]
	}

	for i, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %.4f  %s\n   %s\n", i+1, r.Score, r.Title, r.URL)
	}
	return nil
}
