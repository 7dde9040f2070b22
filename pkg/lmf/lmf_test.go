package lmf

import (
	"bytes"
	"compress/gzip"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/japaniel/wnris/pkg/wordnet"
	_ "github.com/mattn/go-sqlite3"
)

// writeFixture creates a small LMF database at path.
func writeFixture(t *testing.T, path string) {
	t.Helper()
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()
	if err := CreateSchema(conn); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	lemmas := []struct{ id, form, pos string }{
		{"e-speaker", "speaker", "n"},
		{"e-talker", "talker", "n"},
		{"e-hermit", "hermit", "n"},
	}
	for _, l := range lemmas {
		if _, err := conn.Exec(`INSERT INTO Lemma (lexicalEntryId, writtenForm, partOfSpeech) VALUES (?, ?, ?)`, l.id, l.form, l.pos); err != nil {
			t.Fatalf("insert lemma: %v", err)
		}
	}
	senses := []struct{ id, entry, synset string }{
		{"s1", "e-speaker", "100"},
		{"s2", "e-speaker", "101"},
		{"s3", "e-talker", "100"},
	}
	for _, s := range senses {
		if _, err := conn.Exec(`INSERT INTO Sense (senseId, lexicalEntryId, synset) VALUES (?, ?, ?)`, s.id, s.entry, s.synset); err != nil {
			t.Fatalf("insert sense: %v", err)
		}
	}
}

func TestReaderRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lmf.db")
	writeFixture(t, path)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	rows, err := r.Rows(context.Background())
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(rows), rows)
	}

	byForm := map[string]wordnet.Row{}
	for _, row := range rows {
		byForm[row.WrittenForm] = row
	}
	ids := wordnet.SplitSynsetIDs(byForm["speaker"].SynsetIDs)
	sort.Strings(ids)
	if strings.Join(ids, ";") != "100;101" {
		t.Errorf("speaker synsets = %q", byForm["speaker"].SynsetIDs)
	}
	if byForm["hermit"].SynsetIDs != "" {
		t.Errorf("hermit should have no synsets, got %q", byForm["hermit"].SynsetIDs)
	}
	if byForm["talker"].PartOfSpeech != "n" {
		t.Errorf("talker pos = %q", byForm["talker"].PartOfSpeech)
	}

	db := wordnet.Build(rows)
	if db.Synsets.Len() != 2 {
		t.Errorf("expected 2 synsets, got %d", db.Synsets.Len())
	}
}

func TestNewReaderOnOpenConnection(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()
	conn.SetMaxOpenConns(1)
	if err := CreateSchema(conn); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if _, err := conn.Exec(`INSERT INTO Lemma VALUES ('e1', 'Speaker', NULL)`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err := NewReader(conn).Rows(context.Background())
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 1 || rows[0].WrittenForm != "Speaker" || rows[0].PartOfSpeech != "" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestReaderMissingTables(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()
	if _, err := NewReader(conn).Rows(context.Background()); err == nil {
		t.Fatalf("expected error querying a database without LMF tables")
	}
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")
	if _, err := Open(path); err == nil {
		t.Fatalf("expected error opening missing file")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("Open must not create the file")
	}
}

func TestFetch(t *testing.T) {
	src := filepath.Join(t.TempDir(), "lmf.db")
	writeFixture(t, src)
	raw, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	w.Write(raw)
	w.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lmf.db":
			w.Write(raw)
		case "/lmf.db.gz":
			w.Write(gz.Bytes())
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	for _, name := range []string{"/lmf.db", "/lmf.db.gz"} {
		t.Run(name, func(t *testing.T) {
			path, err := Fetch(context.Background(), srv.Client(), srv.URL+name, t.TempDir())
			if err != nil {
				t.Fatalf("fetch: %v", err)
			}
			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if !bytes.Equal(got, raw) {
				t.Fatalf("fetched %d bytes, want %d", len(got), len(raw))
			}
			r, err := Open(path)
			if err != nil {
				t.Fatalf("open fetched: %v", err)
			}
			defer r.Close()
			if rows, err := r.Rows(context.Background()); err != nil || len(rows) != 3 {
				t.Fatalf("rows = %d, err %v", len(rows), err)
			}
		})
	}

	if _, err := Fetch(context.Background(), srv.Client(), srv.URL+"/missing", t.TempDir()); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/lmf.db", true},
		{"http://example.com/lmf.db", true},
		{"./lmf.db", false},
		{"/tmp/https.db", false},
	}
	for _, tt := range tests {
		if got := IsRemote(tt.in); got != tt.want {
			t.Errorf("IsRemote(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}
