package scoring

import "sort"

// Keyword kind constants.
const (
	KindRelevant = "relevant" // biased toward appearing inside the category
	KindClash    = "clash"    // biased toward appearing outside the category
)

// Thresholds control keyword selection sensitivity.
type Thresholds struct {
	// RelevantDominance is the minimum dominance ratio for a token to be
	// selected as a relevant keyword. Default: 4.0
	RelevantDominance float64

	// RelevantTF is the minimum fraction of in-group documents a relevant
	// keyword must appear in. Default: 0.001
	RelevantTF float64

	// ClashDominance is the minimum inverse dominance ratio for a token
	// to be selected as a clash keyword. Default: 10.0
	ClashDominance float64

	// ClashTF is the minimum fraction of out-group documents a clash
	// keyword must appear in. Default: 0.005
	ClashTF float64

	// MaxClashInRelevant is the maximum fraction of in-group documents a
	// clash keyword may appear in. Default: 0.05
	MaxClashInRelevant float64

	// NRelevant caps the relevant keyword list, ranked by in-group
	// document count. Default: 50
	NRelevant int

	// NClash caps the clash keyword list, ranked by bias strength.
	// Default: 30
	NClash int
}

// Defaults returns the standard thresholds.
func Defaults() Thresholds {
	return Thresholds{
		RelevantDominance:  4.0,
		RelevantTF:         0.001,
		ClashDominance:     10.0,
		ClashTF:            0.005,
		MaxClashInRelevant: 0.05,
		NRelevant:          50,
		NClash:             30,
	}
}

// OrDefaults fills zero-valued fields with the standard thresholds.
func (t Thresholds) OrDefaults() Thresholds {
	def := Defaults()
	if t.RelevantDominance == 0 {
		t.RelevantDominance = def.RelevantDominance
	}
	if t.RelevantTF == 0 {
		t.RelevantTF = def.RelevantTF
	}
	if t.ClashDominance == 0 {
		t.ClashDominance = def.ClashDominance
	}
	if t.ClashTF == 0 {
		t.ClashTF = def.ClashTF
	}
	if t.MaxClashInRelevant == 0 {
		t.MaxClashInRelevant = def.MaxClashInRelevant
	}
	if t.NRelevant == 0 {
		t.NRelevant = def.NRelevant
	}
	if t.NClash == 0 {
		t.NClash = def.NClash
	}
	return t
}

// Ratio is a dominance ratio. Unbounded marks the division-by-zero case
// where the token never appears in the reference group: the token's bias
// is beyond any finite threshold.
type Ratio struct {
	Value     float64
	Unbounded bool
}

// Exceeds reports whether the ratio clears the threshold.
// An unbounded ratio clears every threshold.
func (r Ratio) Exceeds(threshold float64) bool {
	return r.Unbounded || r.Value > threshold
}

// Inverse flips the ratio. The inverse of an unbounded ratio is zero;
// the inverse of zero is unbounded.
func (r Ratio) Inverse() Ratio {
	if r.Unbounded {
		return Ratio{}
	}
	if r.Value == 0 {
		return Ratio{Unbounded: true}
	}
	return Ratio{Value: 1 / r.Value}
}

// Dominance computes the size-corrected in-group/out-group dominance of
// a token from its per-group document counts. The normalizer corrects
// for group-size imbalance (|in-group| / |out-group|); the out-group
// must be non-empty for the normalizer to be defined.
func Dominance(inCount, outCount int, normalizer float64) Ratio {
	if outCount == 0 {
		return Ratio{Unbounded: true}
	}
	return Ratio{Value: float64(inCount) / (float64(outCount) * normalizer)}
}

// Classify decides whether a token is a determining keyword for a
// category, given how many in-group and out-group documents contain it.
// The relevant test runs first; a token passing it is never also a clash
// keyword. Returns the kind ("" when neither) and the ranking score:
// in-group count for relevant keywords, inverse dominance for clash.
func (t Thresholds) Classify(inCount, outCount, inDocs, outDocs int) (string, Ratio) {
	normalizer := float64(inDocs) / float64(outDocs)
	ratio := Dominance(inCount, outCount, normalizer)

	if ratio.Exceeds(t.RelevantDominance) && float64(inCount) >= t.RelevantTF*float64(inDocs) {
		return KindRelevant, Ratio{Value: float64(inCount)}
	}

	inverse := ratio.Inverse()
	if inverse.Exceeds(t.ClashDominance) &&
		float64(outCount) >= t.ClashTF*float64(outDocs) &&
		float64(inCount) < t.MaxClashInRelevant*float64(inDocs) {
		return KindClash, inverse
	}

	return "", Ratio{}
}

// Candidate is a classified token awaiting ranking.
type Candidate struct {
	Token string
	Score Ratio
}

// TopN ranks candidates by descending score and returns up to n tokens.
// Unbounded scores rank above any finite score; equal scores tie-break
// on the token so ranking is deterministic.
func TopN(candidates []Candidate, n int) []string {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i].Score, sorted[j].Score
		if a.Unbounded != b.Unbounded {
			return a.Unbounded
		}
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return sorted[i].Token < sorted[j].Token
	})

	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}

	tokens := make([]string, len(sorted))
	for i, c := range sorted {
		tokens[i] = c.Token
	}
	return tokens
}
