// Package lmf reads lemma rows out of a WordNet LMF SQLite database.
package lmf

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/japaniel/wnris/pkg/wordnet"

	_ "github.com/mattn/go-sqlite3"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// lemmaQuery groups every sense of a written form into one ';'-joined column.
const lemmaQuery = `
	SELECT    l.writtenForm,
	          l.partOfSpeech,
	          GROUP_CONCAT(s.synset, ';')
	FROM      Lemma l
	LEFT JOIN Sense s
	ON        s.lexicalEntryId = l.lexicalEntryId
	GROUP BY  l.writtenForm
	ORDER BY  l.writtenForm`

// Reader produces wordnet rows from an LMF database.
type Reader struct {
	q     Querier
	close func() error
}

// Open opens the LMF database at path read-only.
func Open(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open lmf database: %w", err)
	}
	conn, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open lmf database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open lmf database %s: %w", path, err)
	}
	return &Reader{q: conn, close: conn.Close}, nil
}

// NewReader reads from an already opened database. Close is a no-op.
func NewReader(q Querier) *Reader {
	return &Reader{q: q}
}

// Rows runs the grouping query and returns one row per written form.
func (r *Reader) Rows(ctx context.Context) ([]wordnet.Row, error) {
	rows, err := r.q.QueryContext(ctx, lemmaQuery)
	if err != nil {
		return nil, fmt.Errorf("query lemmas: %w", err)
	}
	defer rows.Close()

	var out []wordnet.Row
	for rows.Next() {
		var form string
		var pos, synsets sql.NullString
		if err := rows.Scan(&form, &pos, &synsets); err != nil {
			return nil, fmt.Errorf("scan lemma: %w", err)
		}
		out = append(out, wordnet.Row{
			WrittenForm:  form,
			PartOfSpeech: pos.String,
			SynsetIDs:    synsets.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read lemmas: %w", err)
	}
	return out, nil
}

// Close releases the database opened by Open.
func (r *Reader) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}
