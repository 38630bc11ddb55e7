// Package cli wires cobra subcommands over the crawl and ranking engines,
// using package-level flag vars (each subcommand's own flags bound to
// package vars) and exported SetXForTest setters so tests never need to
// parse argv.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rohmanhakim/vertexcrawl/internal/build"
	"github.com/spf13/cobra"
)

var (
	flagSeedURLs     []string
	flagMaxDepth     int
	flagMaxPages     int
	flagMaxConcurrent int
	flagIndexPath    string
	flagSnapshotPath string
	flagLanguages    []string
	flagKeywords     []string
	flagDomainBlocklist []string
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "vertexcrawl",
		Short:   "A polite concurrent crawler and BM25 search index",
		Version: build.String(),
	}
	root.AddCommand(newCrawlCommand())
	root.AddCommand(newSearchCommand())
	return root
}

// SetSeedURLsForTest lets tests drive the crawl command without parsing argv.
func SetSeedURLsForTest(urls []string) { flagSeedURLs = urls }

// Execute runs the CLI and exits non-zero on error: 130 (128+SIGINT) if the
// run was stopped by an interrupt after saving its snapshot, 1 otherwise.
func Execute() {
	err := NewRootCommand().Execute()
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	var asInterrupted *interruptedError
	if errors.As(err, &asInterrupted) {
		os.Exit(130)
	}
	os.Exit(1)
}
