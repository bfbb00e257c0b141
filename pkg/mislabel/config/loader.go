package config

import (
	"fmt"

	"github.com/cognicore/mislabel/pkg/mislabel"
	"github.com/cognicore/mislabel/pkg/mislabel/ingest"
	"github.com/cognicore/mislabel/pkg/mislabel/scoring"
)

// Loader loads all configuration files and constructs a Detector
type Loader struct {
	KeywordsPath   string // optional: curated keyword sets, bypassing Fit
	StoplistPath   string // optional: stopword list for the tokenizer
	ThresholdsPath string // optional: selection thresholds
}

// Components holds all loaded configuration components
type Components struct {
	Tokenizer  *ingest.Tokenizer
	Thresholds scoring.Thresholds
	Keywords   map[string]mislabel.KeywordSet
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	comp := &Components{Thresholds: scoring.Defaults()}

	if l.StoplistPath != "" {
		stoplist, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Tokenizer = ingest.NewTokenizer(stoplist.Terms)
	} else {
		comp.Tokenizer = ingest.NewTokenizer(nil)
	}

	if l.ThresholdsPath != "" {
		thresholds, err := LoadThresholds(l.ThresholdsPath)
		if err != nil {
			return nil, fmt.Errorf("load thresholds: %w", err)
		}
		comp.Thresholds = thresholds
	}

	if l.KeywordsPath != "" {
		keywords, err := LoadKeywords(l.KeywordsPath)
		if err != nil {
			return nil, fmt.Errorf("load keywords: %w", err)
		}
		comp.Keywords = keywords
	}

	return comp, nil
}

// Detector assembles a Detector from the loaded components.
func (c *Components) Detector() *mislabel.Detector {
	return mislabel.New(mislabel.Options{
		Thresholds:      c.Thresholds,
		Analyzer:        c.Tokenizer,
		InitialKeywords: c.Keywords,
	})
}
