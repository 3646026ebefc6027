// Package persistence implements the logical save/load schema for a
// workbook: a version string and a map from normalized cell name to the
// exact source text the user supplied for that cell. The schema's meaning
// is fixed by spec; the on-disk framing is an implementation choice —
// this package offers a JSON file backend and a Postgres-backed backend
// behind one Store interface.
package persistence

import "context"

// CellRecord is the persisted form of a single cell: just enough to
// replay set_contents_of_cell(name, StringForm) and rebuild everything
// else (contents, graph edges, values) from scratch.
type CellRecord struct {
	StringForm string `json:"StringForm"`
}

// Document is the logical schema described in spec §4.F.
type Document struct {
	Version string                `json:"Version"`
	Cells   map[string]CellRecord `json:"Cells"`
}

// Store persists and retrieves a Document. Implementations are
// synchronous and scoped: a Save or Load call releases any resource it
// opened (file handle, connection) before returning, on every exit path.
type Store interface {
	Save(ctx context.Context, doc Document) error
	Load(ctx context.Context) (Document, error)
}
