package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gookit/color"
	_ "github.com/mattn/go-sqlite3"

	"github.com/japaniel/jiten/pkg/article"
	"github.com/japaniel/jiten/pkg/build"
	"github.com/japaniel/jiten/pkg/config"
	"github.com/japaniel/jiten/pkg/db"
	"github.com/japaniel/jiten/pkg/dictionary"
	"github.com/japaniel/jiten/pkg/ingest"
	"github.com/japaniel/jiten/pkg/segment"
)

func main() {
	var rebuild bool
	flag.BoolVar(&rebuild, "r", false, "Rebuild the dictionary cache from the resources directory")
	flag.BoolVar(&rebuild, "rebuild", false, "Rebuild the dictionary cache from the resources directory")
	configFlag := flag.String("config", "", "Path to a YAML config file")
	dbFlag := flag.String("db", "", "Path to the example sentence database (overrides config)")
	examplesFlag := flag.Bool("examples", false, "Store the configured sentence TSV as examples")
	sentencesFlag := flag.String("sentences", "", "Sentence TSV to segment and store as examples (implies -examples)")
	urlFlag := flag.String("url", "", "Article URL to segment and store as examples")
	segmentFlag := flag.String("segment", "", "Text to split into dictionary words")
	flag.Parse()

	log.SetFlags(0)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbFlag != "" {
		cfg.DBPath = *dbFlag
	}
	if *sentencesFlag != "" {
		cfg.SentencesPath = *sentencesFlag
		*examplesFlag = true
	}
	if !cfg.Color {
		color.Disable()
	}

	if rebuild {
		if err := build.EnsureResources(ctx, nil, cfg.ResourcesDir, cfg.ResourcesURL); err != nil {
			log.Fatalf("Failed to prepare resources: %v", err)
		}
		fmt.Printf("Building dictionaries from %s...\n", cfg.ResourcesDir)
		builder := &build.Builder{Logger: log.New(os.Stderr, "build: ", 0)}
		entries, err := builder.Rebuild(ctx, cfg.ResourcesDir, cfg.CachePath)
		if err != nil {
			log.Fatalf("Failed to build dictionaries: %v", err)
		}
		fmt.Printf("Built %d entries into %s\n", len(entries), cfg.CachePath)
	}

	dict, err := dictionary.Load(cfg.CachePath)
	if err != nil {
		// the cache-absent message is already user facing
		log.Fatal(err)
	}

	seg := segment.New(dict)
	// sentences from files and articles carry punctuation
	seg.SkipSeparators = true
	ran := false

	if *segmentFlag != "" {
		ran = true
		if err := printSegments(os.Stdout, seg, *segmentFlag); err != nil {
			log.Fatalf("Segmentation failed: %v", err)
		}
	}

	if *examplesFlag || *urlFlag != "" {
		ran = true
		conn, err := db.Open(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer conn.Close()
		fmt.Printf("Database initialized at %s\n", cfg.DBPath)

		ingester := ingest.NewIngester(conn, seg)
		ingester.Workers = cfg.Workers
		ingester.BatchSize = cfg.BatchSize
		ingester.Logger = log.New(os.Stderr, "ingest: ", 0)

		if *examplesFlag {
			if err := ingestSentences(ctx, conn, ingester, cfg.SentencesPath); err != nil {
				log.Fatalf("Ingestion failed: %v", err)
			}
		}
		if *urlFlag != "" {
			if err := ingestArticle(ctx, conn, ingester, *urlFlag); err != nil {
				log.Fatalf("Ingestion failed: %v", err)
			}
		}
	}

	examples, closeExamples := openExamples(cfg.DBPath)
	defer closeExamples()
	q := &querier{dict: dict, examples: examples, maxExamples: cfg.MaxExamples}

	queries := flag.Args()
	if len(queries) > 0 {
		for _, raw := range queries {
			q.run(os.Stdout, raw)
		}
		return
	}
	if ran {
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Enter query: ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		q.run(os.Stdout, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Failed to read query: %v", err)
	}
}

// openExamples opens an existing example database. A missing database
// means no examples, not an error.
func openExamples(path string) (*sql.DB, func()) {
	if _, err := os.Stat(path); err != nil {
		return nil, func() {}
	}
	conn, err := db.Open(path)
	if err != nil {
		log.Printf("Warning: examples unavailable: %v", err)
		return nil, func() {}
	}
	return conn, func() { conn.Close() }
}

func ingestSentences(ctx context.Context, conn *sql.DB, ig *ingest.Ingester, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sentences, err := ingest.ReadTSV(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	sourceID, err := db.CreateOrGetSource(conn, db.SourceTatoeba, filepath.Base(path), "", "tatoeba.org", "", "")
	if err != nil {
		return fmt.Errorf("persist source: %w", err)
	}
	fmt.Printf("Read %d sentences from %s.\n", len(sentences), path)
	return runIngest(ctx, conn, ig, sourceID, sentences)
}

func ingestArticle(ctx context.Context, conn *sql.DB, ig *ingest.Ingester, url string) error {
	fmt.Printf("Fetching %s...\n", url)
	a, err := article.Fetch(ctx, nil, url)
	if err != nil {
		return err
	}
	fmt.Printf("Title: %s\n", a.Title)
	fmt.Printf("Extracted Text Length: %d chars\n", len(a.Text))

	sourceID, err := db.CreateOrGetSource(conn, db.SourceArticle, a.Title, a.Byline, a.SiteName, url, "")
	if err != nil {
		return fmt.Errorf("persist source: %w", err)
	}
	fmt.Printf("Source saved with ID: %d\n", sourceID)
	return runIngest(ctx, conn, ig, sourceID, ingest.FromText(a.Text))
}

func runIngest(ctx context.Context, conn *sql.DB, ig *ingest.Ingester, sourceID int64, sentences []ingest.Sentence) error {
	ig.OnProgress = func(current, total int) {
		fmt.Printf("\rProcessed %d/%d sentences", current, total)
	}
	links, err := ig.Ingest(ctx, sourceID, sentences)
	fmt.Println()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("Interrupted; run again to resume.")
		}
		return err
	}
	total, decomposed, err := db.CountSentences(conn, sourceID)
	if err != nil {
		return err
	}
	fmt.Printf("Processing complete. Linked %d entry occurrences; %d of %d sentences decomposed.\n", links, decomposed, total)
	return nil
}
