// Package annotate tokenizes documents and attaches synonyms to every token
// known to the synonym index.
package annotate

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Token is a single analyzed unit of text.
type Token struct {
	Surface  string // as written, e.g. "行っ"
	BaseForm string // dictionary form, e.g. "行く"; Surface when unknown
	POS      string // primary part of speech, e.g. "動詞"
}

// Sentence is a sentence and its tokens.
type Sentence struct {
	Text   string
	Tokens []Token
}

// Analyzer splits text into sentences and tokens.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// NewAnalyzer creates an analyzer backed by the IPA dictionary.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Analyzer{t: t}, nil
}

// Analyze tokenizes text, skipping whitespace and punctuation-only tokens.
func (a *Analyzer) Analyze(text string) []Token {
	var result []Token
	for _, token := range a.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		surface := strings.TrimSpace(token.Surface)
		if surface == "" || isPunct(surface) {
			continue
		}

		// IPA features: 0 POS, 1-3 sub-POS, 4 conjugation type,
		// 5 conjugation form, 6 base form, 7 reading, 8 pronunciation.
		features := token.Features()
		base := surface
		if len(features) > 6 && features[6] != "*" {
			base = features[6]
		}
		pos := ""
		if len(features) > 0 {
			pos = features[0]
		}
		result = append(result, Token{Surface: surface, BaseForm: base, POS: pos})
	}
	return result
}

// AnalyzeDocument splits text into sentences and tokenizes each one.
func (a *Analyzer) AnalyzeDocument(text string) []Sentence {
	var result []Sentence
	for _, s := range splitSentences(text) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		result = append(result, Sentence{Text: s, Tokens: a.Analyze(s)})
	}
	return result
}

func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		end := false
		switch r {
		case '。', '！', '？', '\n':
			end = true
		case '.', '!', '?':
			// ASCII terminators only end a sentence before whitespace or EOF
			end = i+1 == len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t'
		}
		if end {
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

func isPunct(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(".,;:!?\"'()[]{}-、。，！？「」『』（）・", r) {
			return false
		}
	}
	return true
}
