package wordnet

// Entry is the index record of a single lemma.
type Entry struct {
	POS     string
	Synsets []int
}

// Index maps exact-case lemmas to their entries and remembers insertion
// order. Overwriting a lemma keeps its original position.
type Index struct {
	keys    []string
	entries map[string]Entry
}

// NewIndex returns an empty lemma index.
func NewIndex() *Index {
	return &Index{entries: make(map[string]Entry)}
}

// Put records e under lemma, replacing any previous entry entirely.
func (ix *Index) Put(lemma string, e Entry) {
	if _, ok := ix.entries[lemma]; !ok {
		ix.keys = append(ix.keys, lemma)
	}
	ix.entries[lemma] = e
}

// Get returns the entry for lemma.
func (ix *Index) Get(lemma string) (Entry, bool) {
	e, ok := ix.entries[lemma]
	return e, ok
}

// Len returns the number of lemmas.
func (ix *Index) Len() int { return len(ix.keys) }

// Keys returns a copy of all lemmas in insertion order.
func (ix *Index) Keys() []string {
	out := make([]string, len(ix.keys))
	copy(out, ix.keys)
	return out
}

// Each calls fn for every lemma in insertion order.
func (ix *Index) Each(fn func(lemma string, e Entry)) {
	for _, k := range ix.keys {
		fn(k, ix.entries[k])
	}
}
