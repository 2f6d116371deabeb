package corpus

import (
	"context"
	"fmt"
	"regexp"

	"github.com/lib/pq"
	"github.com/scholarsearch/retrieval-platform/internal/engine"
	"github.com/scholarsearch/retrieval-platform/internal/engine/store"
	"github.com/scholarsearch/retrieval-platform/pkg/postgres"
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// LoadPostgres reads the full corpus from a table with (id, title, content)
// columns, ordered by id so repeated loads produce the same document order.
func LoadPostgres(ctx context.Context, client *postgres.Client, table string) ([]engine.InputDocument, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid corpus table name %q", table)
	}
	query := fmt.Sprintf(
		"SELECT id, title, content FROM %s ORDER BY id",
		pq.QuoteIdentifier(table),
	)
	rows, err := client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying corpus table %s: %w", table, err)
	}
	defer rows.Close()

	var docs []engine.InputDocument
	for rows.Next() {
		var id, title, content string
		if err := rows.Scan(&id, &title, &content); err != nil {
			return nil, fmt.Errorf("scanning corpus row: %w", err)
		}
		docs = append(docs, engine.InputDocument{
			ID:      id,
			RawText: title + "\n" + content,
			Metadata: store.Metadata{
				Title:    title,
				Filename: "",
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating corpus rows: %w", err)
	}
	return docs, nil
}
