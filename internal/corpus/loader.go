// Package corpus loads the document collection handed to the retrieval
// engine at startup: either a directory of plain-text files or a Postgres
// table. The first line of each document is treated as its title.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scholarsearch/retrieval-platform/internal/engine"
	"github.com/scholarsearch/retrieval-platform/internal/engine/store"
)

// LoadDirectory reads every .txt file in dir, in lexical filename order, and
// returns one input document per file. The document id is the filename
// without its extension.
func LoadDirectory(dir string) ([]engine.InputDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %s: %w", dir, err)
	}

	docs := make([]engine.InputDocument, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading document %s: %w", path, err)
		}
		content := string(data)
		docs = append(docs, engine.InputDocument{
			ID:      strings.TrimSuffix(entry.Name(), ".txt"),
			RawText: content,
			Metadata: store.Metadata{
				Title:    firstLine(content),
				Filename: entry.Name(),
			},
		})
	}
	return docs, nil
}

// firstLine returns the title line of a document.
func firstLine(content string) string {
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = content[:i]
	}
	line := strings.TrimRight(content, "\r")
	if line == "" {
		return "Unknown Title"
	}
	return line
}
