package annotate

import (
	"context"

	"github.com/japaniel/wnris/pkg/ris"
)

// Lookuper resolves synonyms for a lemma; *ris.Service implements it.
type Lookuper interface {
	Lookup(lemma string, opts ris.LookupOptions) (ris.Result, bool)
}

// Word is a token that resolved to an index entry.
type Word struct {
	Surface  string   `json:"surface" yaml:"surface"`
	Lemma    string   `json:"lemma" yaml:"lemma"`
	POS      string   `json:"pos" yaml:"pos"`
	Synonyms []string `json:"syn" yaml:"syn"`
}

// Annotation is a sentence with the words that have synonyms.
type Annotation struct {
	Sentence string `json:"sentence" yaml:"sentence"`
	Words    []Word `json:"words" yaml:"words"`
}

// Annotator attaches synonyms to the tokens of a document.
type Annotator struct {
	analyzer *Analyzer
	lookup   Lookuper

	// Workers is the number of sentences looked up concurrently.
	Workers int
	// Options is applied to every lookup.
	Options ris.LookupOptions
}

// NewAnnotator returns an annotator with four workers.
func NewAnnotator(analyzer *Analyzer, lookup Lookuper) *Annotator {
	return &Annotator{analyzer: analyzer, lookup: lookup, Workers: 4}
}

// Annotate returns one annotation per sentence of text, in document order.
func (a *Annotator) Annotate(ctx context.Context, text string) ([]Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sentences := a.analyzer.AnalyzeDocument(text)
	out := make([]Annotation, len(sentences))

	pool := NewWorkerPool(a.Workers, a.Workers*2)
	pool.Start(ctx)
	for i, s := range sentences {
		err := pool.Submit(ctx, func(ctx context.Context) error {
			out[i] = a.annotateSentence(s)
			return nil
		})
		if err != nil {
			pool.Close()
			return nil, err
		}
	}
	if err := pool.Close(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Annotator) annotateSentence(s Sentence) Annotation {
	ann := Annotation{Sentence: s.Text, Words: []Word{}}
	seen := make(map[string]struct{})
	for _, tok := range s.Tokens {
		r, ok := a.resolve(tok)
		if !ok || len(r.Synonyms) == 0 {
			continue
		}
		if _, dup := seen[r.Lemma]; dup {
			continue
		}
		seen[r.Lemma] = struct{}{}
		ann.Words = append(ann.Words, Word{
			Surface:  tok.Surface,
			Lemma:    r.Lemma,
			POS:      r.POS,
			Synonyms: r.Synonyms,
		})
	}
	return ann
}

// resolve tries the base form first and falls back to the surface form.
func (a *Annotator) resolve(tok Token) (ris.Result, bool) {
	if r, ok := a.lookup.Lookup(tok.BaseForm, a.Options); ok {
		return r, true
	}
	if tok.Surface != tok.BaseForm {
		return a.lookup.Lookup(tok.Surface, a.Options)
	}
	return ris.Result{}, false
}
