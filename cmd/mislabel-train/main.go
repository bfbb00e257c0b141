package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/cognicore/mislabel/internal/catalog"
	"github.com/cognicore/mislabel/pkg/mislabel"
	mlconfig "github.com/cognicore/mislabel/pkg/mislabel/config"
	"github.com/cognicore/mislabel/pkg/mislabel/store"
	"github.com/cognicore/mislabel/pkg/mislabel/store/sqlite"
)

func main() {
	var (
		input       = flag.String("input", "", "Path to JSONL corpus (required)")
		dbPath      = flag.String("db", "", "Optional: SQLite database to persist keyword sets")
		outPath     = flag.String("out", "", "Optional: YAML file to export keyword sets")
		stoplistCfg = flag.String("stoplist", "", "Optional: stopword list YAML")
		thresholds  = flag.String("thresholds", "", "Optional: thresholds YAML")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}
	if *dbPath == "" && *outPath == "" {
		log.Fatal("at least one of --db or --out required")
	}

	loader := mlconfig.Loader{
		StoplistPath:   *stoplistCfg,
		ThresholdsPath: *thresholds,
	}
	comp, err := loader.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	items, err := catalog.LoadFromJSONL(*input)
	if err != nil {
		log.Fatal("Failed to load corpus:", err)
	}
	corpus, labels := catalog.Split(items)

	detector := mislabel.New(mislabel.Options{
		Thresholds: comp.Thresholds,
		Analyzer:   comp.Tokenizer,
	})
	if err := detector.Fit(corpus, labels); err != nil {
		log.Fatal("Training failed:", err)
	}

	keywords := make(map[string]mislabel.KeywordSet)
	for _, cat := range detector.Categories() {
		ks, err := detector.Keywords(cat)
		if err != nil {
			log.Fatalf("Keywords for %s: %v", cat, err)
		}
		keywords[cat] = ks
		fmt.Printf("%s: %d relevant, %d clash keywords\n", cat, len(ks.Relevant), len(ks.Clash))
	}

	if *outPath != "" {
		if err := mlconfig.SaveKeywords(*outPath, keywords); err != nil {
			log.Fatal("Failed to export keywords:", err)
		}
		log.Printf("Exported keyword sets for %d categories to %s", len(keywords), *outPath)
	}

	if *dbPath != "" {
		ctx := context.Background()
		db, err := sqlite.Open(ctx, *dbPath)
		if err != nil {
			log.Fatal("Failed to open database:", err)
		}
		defer db.Close()

		for cat, ks := range keywords {
			err := db.UpsertKeywords(ctx, cat, store.KeywordSet{
				Relevant: ks.Relevant,
				Clash:    ks.Clash,
			})
			if err != nil {
				log.Fatalf("Failed to persist keywords for %s: %v", cat, err)
			}
		}
		log.Printf("Persisted keyword sets for %d categories to %s", len(keywords), *dbPath)
	}
}
