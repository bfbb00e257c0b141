package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/mislabel/pkg/mislabel"
	"github.com/cognicore/mislabel/pkg/mislabel/internalerr"
	"github.com/cognicore/mislabel/pkg/mislabel/scoring"
)

// KeywordsFile is the on-disk format for curated keyword sets.
type KeywordsFile struct {
	Categories []CategoryKeywords `yaml:"categories"`
}

// CategoryKeywords holds one category's keyword lists.
type CategoryKeywords struct {
	Name     string   `yaml:"name"`
	Relevant []string `yaml:"relevant"`
	Clash    []string `yaml:"clash"`
}

// LoadKeywords loads curated keyword sets from a YAML file.
func LoadKeywords(path string) (map[string]mislabel.KeywordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file KeywordsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	keywords := make(map[string]mislabel.KeywordSet, len(file.Categories))
	for _, cat := range file.Categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("keywords file %s: category with empty name: %w",
				path, internalerr.ErrInvalidConfig)
		}
		if _, dup := keywords[cat.Name]; dup {
			return nil, fmt.Errorf("keywords file %s: duplicate category %q: %w",
				path, cat.Name, internalerr.ErrInvalidConfig)
		}
		keywords[cat.Name] = mislabel.KeywordSet{
			Relevant: cat.Relevant,
			Clash:    cat.Clash,
		}
	}

	return keywords, nil
}

// SaveKeywords writes keyword sets to a YAML file, categories sorted.
func SaveKeywords(path string, keywords map[string]mislabel.KeywordSet) error {
	var file KeywordsFile
	names := make([]string, 0, len(keywords))
	for name := range keywords {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ks := keywords[name]
		file.Categories = append(file.Categories, CategoryKeywords{
			Name:     name,
			Relevant: ks.Relevant,
			Clash:    ks.Clash,
		})
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}

// ThresholdsFile is the on-disk format for selection thresholds.
// Omitted fields fall back to the standard defaults.
type ThresholdsFile struct {
	RelevantDominance  float64 `yaml:"relevant_dominance"`
	RelevantTF         float64 `yaml:"relevant_tf"`
	ClashDominance     float64 `yaml:"clash_dominance"`
	ClashTF            float64 `yaml:"clash_tf"`
	MaxClashInRelevant float64 `yaml:"maximum_clash_in_relevant"`
	NRelevant          int     `yaml:"n_relevant"`
	NClash             int     `yaml:"n_clash"`
}

// LoadThresholds loads selection thresholds from a YAML file.
func LoadThresholds(path string) (scoring.Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Thresholds{}, err
	}

	var file ThresholdsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return scoring.Thresholds{}, err
	}

	return scoring.Thresholds{
		RelevantDominance:  file.RelevantDominance,
		RelevantTF:         file.RelevantTF,
		ClashDominance:     file.ClashDominance,
		ClashTF:            file.ClashTF,
		MaxClashInRelevant: file.MaxClashInRelevant,
		NRelevant:          file.NRelevant,
		NClash:             file.NClash,
	}.OrDefaults(), nil
}
