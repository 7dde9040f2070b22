package wordnet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Database is the root aggregate of a synonym index. It is built once by a
// Builder or decoded from its JSON form and is not mutated afterwards.
type Database struct {
	Lemmas  *Index
	Synsets *Table
}

// New returns an empty database.
func New() *Database {
	return &Database{Lemmas: NewIndex(), Synsets: NewTable()}
}

// lemmaJSON is the persisted form of an Entry.
type lemmaJSON struct {
	POS string `json:"pos"`
	Syn []int  `json:"syn"`
}

// MarshalJSON writes {"lemma": {...}, "synset": [...]} with lemma keys in
// index order, so decoding restores the same insertion order.
func (db *Database) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"lemma":{`)
	var err error
	first := true
	db.Lemmas.Each(func(lemma string, e Entry) {
		if err != nil {
			return
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		var k, v []byte
		if k, err = json.Marshal(lemma); err != nil {
			return
		}
		syn := e.Synsets
		if syn == nil {
			syn = []int{}
		}
		if v, err = json.Marshal(lemmaJSON{POS: e.POS, Syn: syn}); err != nil {
			return
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	})
	if err != nil {
		return nil, fmt.Errorf("encode lemma: %w", err)
	}
	buf.WriteString(`},"synset":`)

	sets := make([][]string, db.Synsets.Len())
	for i := range sets {
		sets[i] = db.Synsets.Members(i)
		if sets[i] == nil {
			sets[i] = []string{}
		}
	}
	s, err := json.Marshal(sets)
	if err != nil {
		return nil, fmt.Errorf("encode synsets: %w", err)
	}
	buf.Write(s)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces db with the decoded database and validates it.
func (db *Database) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	lemmas := NewIndex()
	synsets := NewTable()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read key: %w", err)
		}
		key, _ := tok.(string)
		switch key {
		case "lemma":
			if err := decodeLemmas(dec, lemmas); err != nil {
				return err
			}
		case "synset":
			var sets []Synset
			if err := dec.Decode(&sets); err != nil {
				return fmt.Errorf("decode synsets: %w", err)
			}
			for i := range sets {
				if sets[i] == nil {
					sets[i] = Synset{}
				}
			}
			synsets.sets = sets
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return fmt.Errorf("skip %q: %w", key, err)
			}
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after database object")
	}

	decoded := &Database{Lemmas: lemmas, Synsets: synsets}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*db = *decoded
	return nil
}

func decodeLemmas(dec *json.Decoder, ix *Index) error {
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("lemma: %w", err)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read lemma: %w", err)
		}
		lemma, ok := tok.(string)
		if !ok {
			return fmt.Errorf("lemma key %v is not a string", tok)
		}
		var v lemmaJSON
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decode lemma %q: %w", lemma, err)
		}
		if v.Syn == nil {
			v.Syn = []int{}
		}
		ix.Put(lemma, Entry{POS: v.POS, Synsets: v.Syn})
	}
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("expected %q: %w", want, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// Validate checks that every synset reference exists and that neither lemma
// entries nor synsets contain duplicates.
func (db *Database) Validate() error {
	var err error
	db.Lemmas.Each(func(lemma string, e Entry) {
		if err != nil {
			return
		}
		seen := make(map[int]struct{}, len(e.Synsets))
		for _, ref := range e.Synsets {
			if !db.Synsets.Has(ref) {
				err = fmt.Errorf("lemma %q: synset %d out of range (have %d)", lemma, ref, db.Synsets.Len())
				return
			}
			if _, dup := seen[ref]; dup {
				err = fmt.Errorf("lemma %q: duplicate synset %d", lemma, ref)
				return
			}
			seen[ref] = struct{}{}
		}
	})
	if err != nil {
		return err
	}
	for i, set := range db.Synsets.sets {
		seen := make(map[string]struct{}, len(set))
		for _, m := range set {
			if _, dup := seen[m]; dup {
				return fmt.Errorf("synset %d: duplicate lemma %q", i, m)
			}
			seen[m] = struct{}{}
		}
	}
	return nil
}

// Equal reports whether db and other hold the same lemmas in the same order,
// the same entries and the same synsets.
func (db *Database) Equal(other *Database) bool {
	if db.Lemmas.Len() != other.Lemmas.Len() || db.Synsets.Len() != other.Synsets.Len() {
		return false
	}
	if !slices.Equal(db.Lemmas.keys, other.Lemmas.keys) {
		return false
	}
	for _, k := range db.Lemmas.keys {
		a, b := db.Lemmas.entries[k], other.Lemmas.entries[k]
		if a.POS != b.POS || !slices.Equal(a.Synsets, b.Synsets) {
			return false
		}
	}
	for i := range db.Synsets.sets {
		if !slices.Equal(db.Synsets.sets[i], other.Synsets.sets[i]) {
			return false
		}
	}
	return true
}
