// Command vertexcrawl is the crawler and BM25 search index's entrypoint.
package main

import "github.com/rohmanhakim/vertexcrawl/internal/cli"

func main() {
	cli.Execute()
}
