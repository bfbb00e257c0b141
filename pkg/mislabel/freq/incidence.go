package freq

import "sort"

// Incidence aggregates binary token/document presence counts per category.
// A token is counted at most once per document regardless of how many
// times it occurs in it; only presence matters.
type Incidence struct {
	totalDocs    int
	catDocs      map[string]int            // documents per category
	tokenDocs    map[string]int            // documents containing token, all categories
	catTokenDocs map[string]map[string]int // category -> token -> documents containing
}

// NewIncidence creates an empty incidence table.
func NewIncidence() *Incidence {
	return &Incidence{
		catDocs:      make(map[string]int),
		tokenDocs:    make(map[string]int),
		catTokenDocs: make(map[string]map[string]int),
	}
}

// Add consumes one document's tokens under the given category label.
// Duplicate tokens within the document are collapsed.
func (c *Incidence) Add(category string, tokens []string) {
	c.totalDocs++
	c.catDocs[category]++

	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}

		c.tokenDocs[tok]++
		if c.catTokenDocs[category] == nil {
			c.catTokenDocs[category] = make(map[string]int)
		}
		c.catTokenDocs[category][tok]++
	}
}

// TotalDocs returns the number of documents consumed.
func (c *Incidence) TotalDocs() int {
	return c.totalDocs
}

// Docs returns the number of documents labeled with the category.
func (c *Incidence) Docs(category string) int {
	return c.catDocs[category]
}

// Categories returns the known categories in sorted order.
func (c *Incidence) Categories() []string {
	cats := make([]string, 0, len(c.catDocs))
	for cat := range c.catDocs {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

// Vocabulary returns every distinct token seen, in sorted order.
func (c *Incidence) Vocabulary() []string {
	tokens := make([]string, 0, len(c.tokenDocs))
	for tok := range c.tokenDocs {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return tokens
}

// TokenDocs returns the number of documents containing the token.
func (c *Incidence) TokenDocs(token string) int {
	return c.tokenDocs[token]
}

// CategoryTokenDocs returns the number of documents labeled with the
// category that contain the token.
func (c *Incidence) CategoryTokenDocs(category, token string) int {
	return c.catTokenDocs[category][token]
}
