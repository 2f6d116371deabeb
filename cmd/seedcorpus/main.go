// Command seedcorpus writes the built-in sample corpus to a directory, one
// .txt file per document with the title on the first line.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/scholarsearch/retrieval-platform/internal/corpus"
)

func main() {
	dir := flag.String("dir", "corpus", "directory to write sample documents into")
	flag.Parse()

	if err := corpus.WriteSampleDocuments(*dir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed corpus: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("sample corpus written to %s\n", *dir)
}
