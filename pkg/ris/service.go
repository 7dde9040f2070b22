// Package ris answers synonym lookups against a WordNet reduced information
// set, caching resolved results in a bounded LRU cache.
package ris

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/japaniel/wnris/pkg/lru"
	"github.com/japaniel/wnris/pkg/wordnet"
)

// Source produces the grouped lemma rows of a lexical database.
type Source interface {
	Rows(ctx context.Context) ([]wordnet.Row, error)
}

// Store persists the serialized database. Load must report a missing
// database with an error matching fs.ErrNotExist.
type Store interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Result is a resolved lookup.
type Result struct {
	Lemma    string   `json:"lemma" yaml:"lemma"`
	POS      string   `json:"pos" yaml:"pos"`
	Synonyms []string `json:"syn" yaml:"syn"`
}

func (r Result) clone() Result {
	syn := make([]string, len(r.Synonyms))
	copy(syn, r.Synonyms)
	r.Synonyms = syn
	return r
}

// LookupOptions tunes a single lookup. The zero value is an exact-case,
// cached lookup.
type LookupOptions struct {
	// CaseInsensitive resolves a lemma with no exact match through the
	// case-fold index.
	CaseInsensitive bool
	// SkipCache bypasses both reading and populating the cache.
	SkipCache bool
}

// Options configures a Service.
type Options struct {
	// CacheSize is the lookup cache capacity; lru.DefaultCapacity when <= 0.
	CacheSize int
	Logger    *slog.Logger
}

// Stats describes the live database and its cache.
type Stats struct {
	Lemmas  int       `json:"lemmas"`
	Synsets int       `json:"synsets"`
	Cache   lru.Stats `json:"cache"`
}

// Service owns one database together with its case-fold index and lookup
// cache. Lookups run concurrently; Import and Load swap the whole database
// and clear the cache under the write lock.
type Service struct {
	store  Store
	logger *slog.Logger

	// writeMu serializes Import, Load and Save.
	writeMu sync.Mutex

	mu    sync.RWMutex
	db    *wordnet.Database
	fold  wordnet.CaseFold
	cache *lru.Cache[string, Result]
}

// New creates a service backed by store and loads the persisted database.
// A store without a database yields an empty service.
func New(store Store, opts Options) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Service{
		store:  store,
		logger: logger,
		db:     wordnet.New(),
		fold:   wordnet.CaseFold{},
		cache:  lru.New[string, Result](opts.CacheSize),
	}
	if err := s.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no persisted database, starting empty")
			return s, nil
		}
		return nil, err
	}
	return s, nil
}

// Lookup returns the synonyms of lemma. The boolean is false when the lemma
// is unknown.
func (s *Service) Lookup(lemma string, opts LookupOptions) (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resolved := lemma
	entry, ok := s.db.Lemmas.Get(resolved)
	if !ok && opts.CaseInsensitive {
		if canonical, found := s.fold.Resolve(lemma); found {
			resolved = canonical
			entry, ok = s.db.Lemmas.Get(resolved)
		}
	}
	if !ok {
		return Result{}, false
	}

	if !opts.SkipCache {
		if r, hit := s.cache.Get(resolved); hit {
			return r.clone(), true
		}
	}

	r := s.synonyms(resolved, entry)
	if !opts.SkipCache {
		s.cache.Set(resolved, r)
	}
	return r.clone(), true
}

// synonyms unions the members of every synset of entry, minus lemma itself,
// sorted lexicographically.
func (s *Service) synonyms(lemma string, entry wordnet.Entry) Result {
	set := make(map[string]struct{})
	for _, ref := range entry.Synsets {
		for _, m := range s.db.Synsets.Members(ref) {
			if m != lemma {
				set[m] = struct{}{}
			}
		}
	}
	syn := make([]string, 0, len(set))
	for m := range set {
		syn = append(syn, m)
	}
	sort.Strings(syn)
	return Result{Lemma: lemma, POS: entry.POS, Synonyms: syn}
}

// Manifest returns every lemma in index order.
func (s *Service) Manifest() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.Lemmas.Keys()
}

// Stats reports database size and cache counters.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Lemmas:  s.db.Lemmas.Len(),
		Synsets: s.db.Synsets.Len(),
		Cache:   s.cache.Stats(),
	}
}

// Import rebuilds the database from src, persists it and replaces the live
// one. On any failure the live database is left untouched.
func (s *Service) Import(ctx context.Context, src Source) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	start := time.Now()
	rows, err := src.Rows(ctx)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	db := wordnet.Build(rows)
	data, err := db.MarshalJSON()
	if err != nil {
		return &PersistenceError{Op: "encode", Err: err}
	}
	if err := s.store.Save(data); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	s.replace(db)

	s.logger.Info("database imported",
		slog.Int("rows", len(rows)),
		slog.Int("lemmas", db.Lemmas.Len()),
		slog.Int("synsets", db.Synsets.Len()),
		slog.Int("bytes", len(data)),
		slog.Duration("took", time.Since(start)))
	return nil
}

// Load replaces the live database with the persisted one and empties the cache.
func (s *Service) Load() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	start := time.Now()
	data, err := s.store.Load()
	if err != nil {
		return &PersistenceError{Op: "load", Err: err}
	}
	db := wordnet.New()
	if err := db.UnmarshalJSON(data); err != nil {
		return &PersistenceError{Op: "decode", Err: err}
	}
	s.replace(db)

	s.logger.Info("database loaded",
		slog.Int("lemmas", db.Lemmas.Len()),
		slog.Int("synsets", db.Synsets.Len()),
		slog.Duration("took", time.Since(start)))
	return nil
}

// Save persists the live database.
func (s *Service) Save() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	data, err := s.db.MarshalJSON()
	s.mu.RUnlock()
	if err != nil {
		return &PersistenceError{Op: "encode", Err: err}
	}
	if err := s.store.Save(data); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	s.logger.Info("database saved", slog.Int("bytes", len(data)))
	return nil
}

// replace swaps in db with a freshly built fold index and an empty cache.
func (s *Service) replace(db *wordnet.Database) {
	fold := wordnet.BuildCaseFold(db.Lemmas)

	s.mu.Lock()
	s.db = db
	s.fold = fold
	s.cache.Clear()
	s.mu.Unlock()

	s.logger.Debug("lookup cache invalidated")
}
