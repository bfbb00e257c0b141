// export-catalog converts an HTML catalog export (a table of listings
// with their assigned categories) into the JSONL corpus format consumed
// by mislabel-train and mislabel-judge.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/cognicore/mislabel/internal/catalog"
)

func main() {
	var (
		input      = flag.String("in", "", "Path to HTML export (required)")
		output     = flag.String("out", "", "Output JSONL path (default: stdout)")
		textCol    = flag.Int("text-col", 0, "Table column holding the listing text")
		catCol     = flag.Int("category-col", 1, "Table column holding the category")
		skipHeader = flag.Bool("skip-header", true, "Skip the first table row")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--in required")
	}

	f, err := os.Open(*input)
	if err != nil {
		log.Fatal("Failed to open input:", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		log.Fatal("Failed to parse HTML:", err)
	}

	rows := collectRows(doc)
	if *skipHeader && len(rows) > 0 {
		rows = rows[1:]
	}

	out := os.Stdout
	if *output != "" {
		if out, err = os.Create(*output); err != nil {
			log.Fatal("Failed to create output:", err)
		}
		defer out.Close()
	}

	encoder := json.NewEncoder(out)
	exported := 0
	for i, cells := range rows {
		if *textCol >= len(cells) || *catCol >= len(cells) {
			log.Printf("Warning: skipping row %d with %d cells", i+1, len(cells))
			continue
		}
		item := catalog.Item{
			Text:     cells[*textCol],
			Category: cells[*catCol],
		}
		if item.Text == "" || item.Category == "" {
			continue
		}
		if err := encoder.Encode(item); err != nil {
			log.Fatal("Failed to encode item:", err)
		}
		exported++
	}

	log.Printf("Exported %d items from %d rows", exported, len(rows))
}

// collectRows walks the parsed document and returns the cell texts of
// every table row.
func collectRows(doc *html.Node) [][]string {
	var rows [][]string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, strings.TrimSpace(extractText(c)))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return rows
}

// extractText concatenates the text nodes under n.
func extractText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
