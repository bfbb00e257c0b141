package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
)

// Item represents a single catalog listing with its assigned category
type Item struct {
	ID       string `json:"id,omitempty"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

// LoadFromJSONL loads items from a JSONL file with proper error handling
func LoadFromJSONL(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var items []Item
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		if item.Text == "" || item.Category == "" {
			log.Printf("Warning: skipping item with empty text or category at line %d in %s", i+1, path)
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid items found in %s", path)
	}

	return items, nil
}

// Split separates items into the parallel corpus/labels slices the
// detector consumes.
func Split(items []Item) (corpus []string, labels []string) {
	corpus = make([]string, len(items))
	labels = make([]string, len(items))
	for i, item := range items {
		corpus[i] = item.Text
		labels[i] = item.Category
	}
	return corpus, labels
}
