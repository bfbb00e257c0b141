package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadFromJSONL(t *testing.T) {
	path := writeFile(t, `
{"id": "sku-1", "text": "red cotton shirt", "category": "clothes"}

{"text": "leather bag", "category": "bags"}
not json at all
{"text": "", "category": "clothes"}
{"text": "trail shoes", "category": ""}
{"text": "canvas sneakers", "category": "footwear"}
`)

	items, err := LoadFromJSONL(path)
	if err != nil {
		t.Fatalf("LoadFromJSONL: %v", err)
	}

	// Blank lines, malformed JSON, and incomplete items are skipped.
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3: %v", len(items), items)
	}
	if items[0].ID != "sku-1" || items[0].Category != "clothes" {
		t.Fatalf("items[0] = %+v", items[0])
	}
	if items[2].Text != "canvas sneakers" {
		t.Fatalf("items[2] = %+v", items[2])
	}
}

func TestLoadFromJSONLAllInvalid(t *testing.T) {
	path := writeFile(t, "garbage\n{\"text\": \"\", \"category\": \"\"}\n")

	if _, err := LoadFromJSONL(path); err == nil {
		t.Fatal("expected error when no valid items remain")
	}
}

func TestLoadFromJSONLMissingFile(t *testing.T) {
	if _, err := LoadFromJSONL(filepath.Join(t.TempDir(), "absent.jsonl")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSplit(t *testing.T) {
	items := []Item{
		{Text: "red shirt", Category: "clothes"},
		{Text: "trail shoes", Category: "footwear"},
	}

	corpus, labels := Split(items)
	if !reflect.DeepEqual(corpus, []string{"red shirt", "trail shoes"}) {
		t.Fatalf("corpus = %v", corpus)
	}
	if !reflect.DeepEqual(labels, []string{"clothes", "footwear"}) {
		t.Fatalf("labels = %v", labels)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.jsonl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}
