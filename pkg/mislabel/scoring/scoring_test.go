package scoring

import (
	"reflect"
	"testing"
)

func TestDefaults(t *testing.T) {
	def := Defaults()
	if def.RelevantDominance != 4.0 || def.RelevantTF != 0.001 {
		t.Fatalf("unexpected relevant defaults: %+v", def)
	}
	if def.ClashDominance != 10.0 || def.ClashTF != 0.005 || def.MaxClashInRelevant != 0.05 {
		t.Fatalf("unexpected clash defaults: %+v", def)
	}
	if def.NRelevant != 50 || def.NClash != 30 {
		t.Fatalf("unexpected cap defaults: %+v", def)
	}
}

func TestOrDefaultsFillsZeroFields(t *testing.T) {
	th := Thresholds{RelevantDominance: 2.5, NClash: 5}.OrDefaults()

	if th.RelevantDominance != 2.5 {
		t.Fatalf("explicit field overwritten: %+v", th)
	}
	if th.NClash != 5 {
		t.Fatalf("explicit cap overwritten: %+v", th)
	}
	if th.ClashDominance != 10.0 || th.NRelevant != 50 {
		t.Fatalf("zero fields not filled: %+v", th)
	}
}

func TestRatioExceeds(t *testing.T) {
	cases := []struct {
		name      string
		ratio     Ratio
		threshold float64
		want      bool
	}{
		{"above", Ratio{Value: 5}, 4, true},
		{"equal is not above", Ratio{Value: 4}, 4, false},
		{"below", Ratio{Value: 3}, 4, false},
		{"unbounded clears any threshold", Ratio{Unbounded: true}, 1e12, true},
		{"zero", Ratio{}, 0.1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ratio.Exceeds(tc.threshold); got != tc.want {
				t.Fatalf("Exceeds(%v) = %v, want %v", tc.threshold, got, tc.want)
			}
		})
	}
}

func TestRatioInverse(t *testing.T) {
	if inv := (Ratio{Value: 4}).Inverse(); inv.Unbounded || inv.Value != 0.25 {
		t.Fatalf("inverse of 4 = %+v", inv)
	}
	if inv := (Ratio{}).Inverse(); !inv.Unbounded {
		t.Fatalf("inverse of zero should be unbounded, got %+v", inv)
	}
	// The inverse of unbounded dominance is no dominance at all, which
	// must never clear a positive threshold.
	if inv := (Ratio{Unbounded: true}).Inverse(); inv.Unbounded || inv.Exceeds(0.0001) {
		t.Fatalf("inverse of unbounded = %+v", inv)
	}
}

func TestDominance(t *testing.T) {
	// 6 in-group docs of 10, 4 out-group docs of 20, normalizer 0.5:
	// 6 / (4 * 0.5) = 3.
	r := Dominance(6, 4, 0.5)
	if r.Unbounded || r.Value != 3 {
		t.Fatalf("dominance = %+v, want 3", r)
	}

	if r := Dominance(6, 0, 0.5); !r.Unbounded {
		t.Fatalf("zero out-count should be unbounded, got %+v", r)
	}

	if r := Dominance(0, 4, 0.5); r.Unbounded || r.Value != 0 {
		t.Fatalf("zero in-count should be zero, got %+v", r)
	}
}

func TestClassify(t *testing.T) {
	th := Defaults()

	t.Run("relevant on unbounded dominance", func(t *testing.T) {
		kind, score := th.Classify(5, 0, 100, 100)
		if kind != KindRelevant {
			t.Fatalf("kind = %q, want relevant", kind)
		}
		if score.Value != 5 {
			t.Fatalf("relevant score should be the in-group count, got %+v", score)
		}
	})

	t.Run("relevant blocked by term frequency", func(t *testing.T) {
		// Dominant but too rare: below relevant_tf of the in-group.
		th := Thresholds{RelevantTF: 0.1}.OrDefaults()
		if kind, _ := th.Classify(5, 0, 100, 100); kind != "" {
			t.Fatalf("kind = %q, want none", kind)
		}
	})

	t.Run("clash on absent in-group", func(t *testing.T) {
		kind, score := th.Classify(0, 30, 100, 100)
		if kind != KindClash {
			t.Fatalf("kind = %q, want clash", kind)
		}
		if !score.Unbounded {
			t.Fatalf("clash score for absent token should be unbounded, got %+v", score)
		}
	})

	t.Run("clash blocked by in-group presence", func(t *testing.T) {
		// Strong out-group bias (inverse ratio 15), but 6% of the
		// in-group still uses the token: above maximum_clash_in_relevant.
		if kind, _ := th.Classify(6, 90, 100, 100); kind != "" {
			t.Fatalf("expected no classification")
		}
	})

	t.Run("balanced token is neither", func(t *testing.T) {
		if kind, _ := th.Classify(50, 50, 100, 100); kind != "" {
			t.Fatalf("expected no classification")
		}
	})

	t.Run("relevant test wins over clash", func(t *testing.T) {
		// Loose thresholds make both tests pass for the same counts; the
		// relevant classification must win.
		loose := Thresholds{
			RelevantDominance:  0.01,
			RelevantTF:         0.001,
			ClashDominance:     1,
			ClashTF:            0.001,
			MaxClashInRelevant: 1,
			NRelevant:          50,
			NClash:             30,
		}
		kind, _ := loose.Classify(1, 5, 10, 10)

		// Sanity: the clash conditions alone would accept these counts.
		inv := Dominance(1, 5, 1).Inverse()
		if !inv.Exceeds(loose.ClashDominance) {
			t.Fatal("test setup broken: clash conditions should hold")
		}
		if kind != KindRelevant {
			t.Fatalf("kind = %q, want relevant (priority rule)", kind)
		}
	})
}

func TestTopN(t *testing.T) {
	candidates := []Candidate{
		{Token: "mid", Score: Ratio{Value: 5}},
		{Token: "top", Score: Ratio{Unbounded: true}},
		{Token: "low", Score: Ratio{Value: 1}},
		{Token: "high", Score: Ratio{Value: 9}},
	}

	t.Run("orders by score with unbounded first", func(t *testing.T) {
		got := TopN(candidates, 10)
		want := []string{"top", "high", "mid", "low"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("TopN = %v, want %v", got, want)
		}
	})

	t.Run("truncates", func(t *testing.T) {
		got := TopN(candidates, 2)
		if !reflect.DeepEqual(got, []string{"top", "high"}) {
			t.Fatalf("TopN = %v", got)
		}
	})

	t.Run("ties break on token", func(t *testing.T) {
		tied := []Candidate{
			{Token: "zeta", Score: Ratio{Value: 3}},
			{Token: "alpha", Score: Ratio{Value: 3}},
			{Token: "beta", Score: Ratio{Value: 3}},
		}
		got := TopN(tied, 10)
		want := []string{"alpha", "beta", "zeta"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("TopN = %v, want %v", got, want)
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		before := make([]Candidate, len(candidates))
		copy(before, candidates)
		TopN(candidates, 2)
		if !reflect.DeepEqual(candidates, before) {
			t.Fatal("TopN mutated its input")
		}
	})
}
