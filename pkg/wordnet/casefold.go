package wordnet

import "strings"

// CaseFold maps a lower-cased lemma to the canonical lemma present in an Index.
type CaseFold map[string]string

// BuildCaseFold derives the fold table from ix. When several lemmas fold to
// the same lower-case form, the one inserted last into ix wins.
func BuildCaseFold(ix *Index) CaseFold {
	fold := make(CaseFold, ix.Len())
	ix.Each(func(lemma string, _ Entry) {
		fold[strings.ToLower(lemma)] = lemma
	})
	return fold
}

// Resolve returns the canonical lemma for any casing of lemma.
func (f CaseFold) Resolve(lemma string) (string, bool) {
	canonical, ok := f[strings.ToLower(lemma)]
	return canonical, ok
}
