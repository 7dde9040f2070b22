package wordnet

import "strings"

// Row is one grouped lemma record from a lexical database dump.
type Row struct {
	WrittenForm  string
	PartOfSpeech string
	// SynsetIDs is the ';'-joined list of external synset identifiers.
	// Empty when the lemma has no senses.
	SynsetIDs string
}

// Builder turns rows into a Database, assigning a dense synset index to every
// external identifier in first-encounter order.
type Builder struct {
	db    *Database
	dense map[string]int
}

// NewBuilder returns a builder for a fresh database.
func NewBuilder() *Builder {
	return &Builder{db: New(), dense: make(map[string]int)}
}

// Add merges r into the database under construction. A lemma seen again
// replaces its earlier entry; synset memberships already recorded stay.
func (b *Builder) Add(r Row) {
	ids := SplitSynsetIDs(r.SynsetIDs)
	refs := make([]int, 0, len(ids))
	for _, id := range ids {
		idx, ok := b.dense[id]
		if !ok {
			idx = len(b.dense)
			b.dense[id] = idx
		}
		refs = append(refs, idx)
	}
	for _, idx := range refs {
		b.db.Synsets.add(idx, r.WrittenForm)
	}
	b.db.Lemmas.Put(r.WrittenForm, Entry{POS: r.PartOfSpeech, Synsets: refs})
}

// Database returns the database built so far.
func (b *Builder) Database() *Database { return b.db }

// Build is a shortcut for adding every row to a new Builder.
func Build(rows []Row) *Database {
	b := NewBuilder()
	for _, r := range rows {
		b.Add(r)
	}
	return b.Database()
}

// SplitSynsetIDs splits a ';'-joined identifier list, dropping empty
// segments and repeats while keeping first-occurrence order.
func SplitSynsetIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := parts[:0]
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
