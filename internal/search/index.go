// Package search ranks short names (ingredient keys) against free text by
// Jaccard similarity. It backs "did you mean" suggestions when a meal item
// does not resolve against the ingredient table.
//
// Both sides are split into lowercase words and each word into padded
// character trigrams, so "chiken" still overlaps "chicken". The score is
// |Q ∩ T| / |Q ∪ T| over those trigram sets. An Index is read-only after
// construction and safe for concurrent use.
package search

import (
	"regexp"
	"sort"
	"strings"
)

// Result is a ranked term. Pos is the term's index in the slice the Index
// was built from.
type Result struct {
	Term  string  `json:"term"`
	Pos   int     `json:"-"`
	Score float64 `json:"score"`
}

// Option configures an Index.
type Option func(*config)

type config struct {
	minScore  float64
	stopwords map[string]struct{}
}

func defaultConfig() config {
	return config{minScore: 0.2}
}

// WithMinScore drops results scoring below s. Values outside [0,1] are
// ignored.
func WithMinScore(s float64) Option {
	return func(c *config) {
		if s >= 0 && s <= 1 {
			c.minScore = s
		}
	}
}

// WithStopwords ignores the given words in queries and terms.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

type term struct {
	text  string
	grams map[string]struct{}
}

// Index holds the searchable terms.
type Index struct {
	cfg   config
	terms []term
}

// New builds an Index over terms, keeping their order for tie-breaks. Blank
// terms are kept as unmatchable placeholders so Pos stays aligned.
func New(terms []string, opts ...Option) *Index {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	idx := &Index{cfg: cfg, terms: make([]term, 0, len(terms))}
	for _, t := range terms {
		idx.terms = append(idx.terms, term{text: t, grams: trigrams(t, cfg.stopwords)})
	}
	return idx
}

// Len reports the number of indexed terms.
func (i *Index) Len() int { return len(i.terms) }

// TopK returns up to k terms ranked by score, highest first. Equal scores
// keep index order. k <= 0 means 3.
func (i *Index) TopK(q string, k int) []Result {
	if k <= 0 {
		k = 3
	}
	qGrams := trigrams(q, i.cfg.stopwords)
	if len(qGrams) == 0 {
		return nil
	}

	var buf []Result
	for pos, t := range i.terms {
		over := overlap(qGrams, t.grams)
		if over == 0 {
			continue
		}
		score := float64(over) / float64(len(qGrams)+len(t.grams)-over)
		if score < i.cfg.minScore {
			continue
		}
		buf = append(buf, Result{Term: t.text, Pos: pos, Score: score})
	}

	sort.SliceStable(buf, func(a, b int) bool { return buf[a].Score > buf[b].Score })
	if len(buf) > k {
		buf = buf[:k]
	}
	return buf
}

// ----------------------------------------------------------------------------
// Helpers

var wordRE = regexp.MustCompile(`\p{L}+`)

// trigrams returns the padded character trigrams of every non-stopword word
// in s: "egg" gives " eg", "egg", "gg ".
func trigrams(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(strings.ToLower(s), -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{})
	for _, w := range words {
		if _, skip := stop[w]; skip {
			continue
		}
		r := []rune(" " + w + " ")
		for j := 0; j+3 <= len(r); j++ {
			out[string(r[j:j+3])] = struct{}{}
		}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
