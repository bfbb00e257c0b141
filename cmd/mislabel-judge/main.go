package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/cognicore/mislabel/internal/catalog"
	"github.com/cognicore/mislabel/pkg/mislabel"
	mlconfig "github.com/cognicore/mislabel/pkg/mislabel/config"
	"github.com/cognicore/mislabel/pkg/mislabel/report"
	"github.com/cognicore/mislabel/pkg/mislabel/store"
	"github.com/cognicore/mislabel/pkg/mislabel/store/sqlite"
)

func main() {
	var (
		input       = flag.String("input", "", "Path to JSONL corpus to judge (required)")
		keywordsCfg = flag.String("keywords", "", "Keyword sets YAML (this or --db required)")
		dbPath      = flag.String("db", "", "SQLite database holding keyword sets (this or --keywords required)")
		stoplistCfg = flag.String("stoplist", "", "Optional: stopword list YAML")
		record      = flag.Bool("record", false, "Record the run in the database (requires --db)")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}
	if *keywordsCfg == "" && *dbPath == "" {
		log.Fatal("one of --keywords or --db required")
	}
	if *record && *dbPath == "" {
		log.Fatal("--record requires --db")
	}

	ctx := context.Background()

	loader := mlconfig.Loader{
		KeywordsPath: *keywordsCfg,
		StoplistPath: *stoplistCfg,
	}
	comp, err := loader.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	var db store.Store
	if *dbPath != "" {
		if db, err = sqlite.Open(ctx, *dbPath); err != nil {
			log.Fatal("Failed to open database:", err)
		}
		defer db.Close()
	}

	// Keywords from the database win over the YAML file when both given.
	keywords := comp.Keywords
	if db != nil {
		stored, err := db.AllKeywords(ctx)
		if err != nil {
			log.Fatal("Failed to load keywords from database:", err)
		}
		if len(stored) > 0 {
			keywords = make(map[string]mislabel.KeywordSet, len(stored))
			for cat, ks := range stored {
				keywords[cat] = mislabel.KeywordSet{Relevant: ks.Relevant, Clash: ks.Clash}
			}
		}
	}
	if len(keywords) == 0 {
		log.Fatal("No keyword sets available")
	}

	items, err := catalog.LoadFromJSONL(*input)
	if err != nil {
		log.Fatal("Failed to load corpus:", err)
	}
	corpus, labels := catalog.Split(items)

	detector := mislabel.New(mislabel.Options{
		Analyzer:        comp.Tokenizer,
		InitialKeywords: keywords,
	})

	results, err := detector.Judge(corpus, labels)
	if err != nil {
		log.Fatal("Judgment failed:", err)
	}

	run := report.New().Build(corpus, labels, results, time.Now())

	if *record {
		runItems := make([]store.RunItem, len(run.Flagged))
		for i, f := range run.Flagged {
			runItems[i] = store.RunItem{
				Index:    f.Index,
				Category: f.Category,
				Text:     f.Text,
				Clash:    f.Clash,
			}
		}
		err := db.SaveRun(ctx, store.Run{
			ID:           run.ID,
			CreatedAt:    run.CreatedAt,
			TotalItems:   run.TotalItems,
			FlaggedItems: len(run.Flagged),
			Items:        runItems,
		})
		if err != nil {
			log.Fatal("Failed to record run:", err)
		}
		log.Printf("Recorded run %s", run.ID)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(run); err != nil {
		log.Fatal("Failed to encode report:", err)
	}
}
