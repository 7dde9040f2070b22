// Package wordnet holds the in-memory synonym index: a table of synsets and
// an insertion-ordered lemma index referencing it.
package wordnet

// Synset is an ordered group of lemmas sharing one sense. A lemma appears at
// most once.
type Synset []string

// Table is the dense, ordered collection of synsets. Synset indices are
// assigned at import time in first-seen order.
type Table struct {
	sets []Synset
}

// NewTable returns an empty synset table.
func NewTable() *Table {
	return &Table{}
}

// Len returns the number of synsets.
func (t *Table) Len() int { return len(t.sets) }

// Members returns the lemmas of synset i. It returns nil when i is out of range.
// The returned slice must not be modified.
func (t *Table) Members(i int) Synset {
	if i < 0 || i >= len(t.sets) {
		return nil
	}
	return t.sets[i]
}

// Has reports whether synset i exists.
func (t *Table) Has(i int) bool {
	return i >= 0 && i < len(t.sets)
}

// add appends lemma to synset i unless it is already a member, growing the
// table when i is the next free index.
func (t *Table) add(i int, lemma string) {
	for len(t.sets) <= i {
		t.sets = append(t.sets, Synset{})
	}
	for _, m := range t.sets[i] {
		if m == lemma {
			return
		}
	}
	t.sets[i] = append(t.sets[i], lemma)
}
