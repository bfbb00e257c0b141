package mislabel

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/cognicore/mislabel/pkg/mislabel/freq"
	"github.com/cognicore/mislabel/pkg/mislabel/ingest"
	"github.com/cognicore/mislabel/pkg/mislabel/internalerr"
	"github.com/cognicore/mislabel/pkg/mislabel/scoring"
)

// Analyzer produces the token stream used both for training incidence
// counts and for judgment-time token sets. It must be case-normalizing
// and deterministic; using different analyzers for the two phases breaks
// exact-token matching.
type Analyzer interface {
	Tokenize(text string) []string
}

// KeywordSet holds the determining keywords learned (or curated) for one
// category. Relevant keywords are ordered by descending in-group document
// count, clash keywords by descending bias strength. Tokens within each
// list are unique and lowercased.
type KeywordSet struct {
	Relevant []string
	Clash    []string
}

// Result is the judgment outcome for a single item: the clash keywords
// found in it, sorted. Empty means no miscategorization signal.
type Result []string

// Options configures a Detector.
type Options struct {
	// Thresholds for keyword selection; zero fields fall back to
	// scoring.Defaults().
	Thresholds scoring.Thresholds

	// Analyzer tokenizes item text. When nil an ingest.Tokenizer with no
	// stopwords is used.
	Analyzer Analyzer

	// InitialKeywords injects curated keyword sets per category,
	// making the Detector judge-ready without a Fit call.
	InitialKeywords map[string]KeywordSet
}

// Detector flags catalog items that look miscategorized.
//
// Per category it holds two keyword lists: relevant keywords strongly
// associated with legitimate membership, and clash keywords strongly
// associated with the category's complement. An item is flagged only if
// it contains a clash keyword as a whole token AND contains no relevant
// keyword anywhere in its text, even inside a longer word. The asymmetry
// is deliberate: a relevant keyword asserts the item belongs here even as
// part of a compound ("runningshoes" is still about shoes), while a clash
// keyword is only suspicious as an independent word.
//
// The Detector never assigns or changes a category; it only flags
// potential miscategorization within an already-assigned one.
type Detector struct {
	thresholds scoring.Thresholds
	analyzer   Analyzer
	state      atomic.Pointer[snapshot]
}

// snapshot is an immutable keyword table. Fit builds a fresh snapshot and
// swaps it in atomically, so Judge never observes a partial update.
type snapshot struct {
	categories []string
	sets       map[string]keywordState
}

type keywordState struct {
	relevant []string
	clash    []string
	clashSet map[string]struct{}
}

// New creates a Detector. Injected keyword sets, when given, make it
// judge-ready immediately; otherwise Fit must succeed first.
func New(opts Options) *Detector {
	analyzer := opts.Analyzer
	if analyzer == nil {
		analyzer = ingest.NewTokenizer(nil)
	}

	d := &Detector{
		thresholds: opts.Thresholds.OrDefaults(),
		analyzer:   analyzer,
	}

	if opts.InitialKeywords != nil {
		snap := &snapshot{sets: make(map[string]keywordState, len(opts.InitialKeywords))}
		for cat, ks := range opts.InitialKeywords {
			snap.categories = append(snap.categories, cat)
			snap.sets[cat] = newKeywordState(ks.Relevant, ks.Clash)
		}
		sort.Strings(snap.categories)
		d.state.Store(snap)
	}

	return d
}

// Fit learns per-category keyword sets from a labeled corpus. Each
// distinct label becomes a category; the corpus entries are lowercased
// in place. A successful call replaces all previously learned categories
// at once; a failed call leaves prior state untouched.
//
// Every category must have at least one document outside it (the
// group-size normalizer is undefined otherwise), so a corpus with a
// single distinct label cannot be fitted.
func (d *Detector) Fit(corpus []string, labels []string) error {
	if len(corpus) != len(labels) {
		return fmt.Errorf("fit: corpus length %d, labels length %d: %w",
			len(corpus), len(labels), internalerr.ErrInvalidInput)
	}

	for i, text := range corpus {
		corpus[i] = strings.ToLower(text)
	}

	// Tokenize each document once; per-category counts come from the
	// aggregated incidence table.
	inc := freq.NewIncidence()
	for i, text := range corpus {
		inc.Add(labels[i], d.analyzer.Tokenize(text))
	}

	vocab := inc.Vocabulary()
	total := inc.TotalDocs()

	snap := &snapshot{
		categories: inc.Categories(),
		sets:       make(map[string]keywordState, len(inc.Categories())),
	}

	for _, cat := range snap.categories {
		inDocs := inc.Docs(cat)
		outDocs := total - inDocs
		if outDocs == 0 {
			return fmt.Errorf("fit: category %q has an empty out-group: %w",
				cat, internalerr.ErrInvalidInput)
		}

		var relevant, clash []scoring.Candidate
		for _, tok := range vocab {
			inCount := inc.CategoryTokenDocs(cat, tok)
			outCount := inc.TokenDocs(tok) - inCount

			kind, score := d.thresholds.Classify(inCount, outCount, inDocs, outDocs)
			switch kind {
			case scoring.KindRelevant:
				relevant = append(relevant, scoring.Candidate{Token: tok, Score: score})
			case scoring.KindClash:
				clash = append(clash, scoring.Candidate{Token: tok, Score: score})
			}
		}

		snap.sets[cat] = newKeywordState(
			scoring.TopN(relevant, d.thresholds.NRelevant),
			scoring.TopN(clash, d.thresholds.NClash),
		)
	}

	d.state.Store(snap)
	return nil
}

// Judge evaluates each item against its assigned category's keyword
// sets. The result per item is the set of clash keywords found as whole
// tokens, but only when no relevant keyword occurs anywhere in the
// lowercased text; otherwise the item passes with an empty result.
func (d *Detector) Judge(corpus []string, labels []string) ([]Result, error) {
	snap := d.state.Load()
	if snap == nil || len(snap.categories) == 0 {
		return nil, fmt.Errorf("judge: %w", internalerr.ErrUntrained)
	}

	var unknown []string
	seen := make(map[string]struct{})
	for _, label := range labels {
		if _, ok := snap.sets[label]; ok {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		unknown = append(unknown, label)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("judge: %w: %s",
			internalerr.ErrUnknownLabel, strings.Join(unknown, ", "))
	}

	if len(corpus) != len(labels) {
		return nil, fmt.Errorf("judge: corpus length %d, labels length %d: %w",
			len(corpus), len(labels), internalerr.ErrInvalidInput)
	}

	results := make([]Result, len(corpus))
	for i, raw := range corpus {
		text := strings.ToLower(raw)
		ks := snap.sets[labels[i]]

		var matches []string
		for _, tok := range uniqueTokens(d.analyzer.Tokenize(text)) {
			if _, ok := ks.clashSet[tok]; ok {
				matches = append(matches, tok)
			}
		}
		if len(matches) == 0 || containsAnyKeyword(text, ks.relevant) {
			continue
		}
		sort.Strings(matches)
		results[i] = matches
	}

	return results, nil
}

// Keywords returns the stored keyword set for a category.
func (d *Detector) Keywords(category string) (KeywordSet, error) {
	snap := d.state.Load()
	if snap == nil || len(snap.categories) == 0 {
		return KeywordSet{}, fmt.Errorf("keywords: %w", internalerr.ErrUntrained)
	}
	ks, ok := snap.sets[category]
	if !ok {
		return KeywordSet{}, fmt.Errorf("keywords: %w: %s", internalerr.ErrUnknownLabel, category)
	}
	return KeywordSet{
		Relevant: copyStrings(ks.relevant),
		Clash:    copyStrings(ks.clash),
	}, nil
}

// Categories returns the known categories in sorted order, or nil when
// the detector holds no state.
func (d *Detector) Categories() []string {
	snap := d.state.Load()
	if snap == nil {
		return nil
	}
	return copyStrings(snap.categories)
}

func newKeywordState(relevant, clash []string) keywordState {
	ks := keywordState{
		relevant: make([]string, 0, len(relevant)),
		clash:    make([]string, 0, len(clash)),
		clashSet: make(map[string]struct{}, len(clash)),
	}
	relSeen := make(map[string]struct{}, len(relevant))
	for _, kw := range relevant {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if _, dup := relSeen[kw]; dup {
			continue
		}
		ks.relevant = append(ks.relevant, kw)
		relSeen[kw] = struct{}{}
	}
	for _, kw := range clash {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if _, dup := ks.clashSet[kw]; dup {
			continue
		}
		ks.clash = append(ks.clash, kw)
		ks.clashSet[kw] = struct{}{}
	}
	return ks
}

// containsAnyKeyword reports whether any keyword occurs as a substring
// of text. Keywords match as infixes: "shoe" matches "runningshoes".
// An empty keyword list never matches anything.
func containsAnyKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func uniqueTokens(tokens []string) []string {
	set := make(map[string]struct{}, len(tokens))
	var out []string
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if _, ok := set[tok]; ok {
			continue
		}
		set[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
