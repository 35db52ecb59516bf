package ingest

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/japaniel/jiten/pkg/db"
	"github.com/japaniel/jiten/pkg/dictionary"
	"github.com/japaniel/jiten/pkg/segment"
)

func setupDB(t testing.TB) *sql.DB {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	conn.SetMaxOpenConns(1)
	if err := db.InitDB(conn); err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	return conn
}

func testSegmenter() *segment.Segmenter {
	seg := segment.New(dictionary.New([]dictionary.Entry{
		dictionary.NewWord(dictionary.Word{Vocabulary: "今日", Reading: "きょう", Meanings: []string{"today"}, ID: 1579110}),
		dictionary.NewWord(dictionary.Word{Vocabulary: "は", Reading: "は", Meanings: []string{"topic marker"}, ID: 2028920}),
		dictionary.NewWord(dictionary.Word{Vocabulary: "寒い", Reading: "さむい", Meanings: []string{"cold"}, ID: 1294400}),
		dictionary.NewName(dictionary.Name{Name: "東京", Reading: "とうきょう", Translations: []string{"Tokyo"}, ID: 5000000}),
	}))
	seg.SkipSeparators = true
	return seg
}

func TestIngestResume(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	sourceID, err := db.CreateOrGetSource(conn, "test", "Title", "Author", "Site", "http://test", "")
	if err != nil {
		t.Fatal(err)
	}

	var sentences []Sentence
	for i := 0; i < 10; i++ {
		sentences = append(sentences, Sentence{Text: "今日は寒い。"})
	}

	// Manually set progress to index 4 (so 5 sentences processed: 0,1,2,3,4)
	if err := db.UpdateSourceProgress(conn, sourceID, 4); err != nil {
		t.Fatal(err)
	}

	ingester := NewIngester(conn, testSegmenter())
	ingester.BatchSize = 2 // Verify batching doesn't interfere

	count, err := ingester.Ingest(context.Background(), sourceID, sentences)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	// Sentences 5..9, three linked spans each.
	if count != 15 {
		t.Errorf("Expected 15 linked items, got %d", count)
	}
	total, decomposed, err := db.CountSentences(conn, sourceID)
	if err != nil {
		t.Fatal(err)
	}
	if total != 5 || decomposed != 5 {
		t.Errorf("expected 5 stored decomposed sentences, got %d/%d", decomposed, total)
	}
	progress, _ := db.GetSourceProgress(conn, sourceID)
	if progress != 9 {
		t.Errorf("expected progress 9, got %d", progress)
	}

	// nothing left to do
	count, err = ingester.Ingest(context.Background(), sourceID, sentences)
	if err != nil || count != 0 {
		t.Errorf("expected no-op re-ingest, got %d, %v", count, err)
	}
}

func TestIngestLinksEntries(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	sourceID, err := db.CreateOrGetSource(conn, db.SourceTatoeba, "Tatoeba", "", "", "", "")
	if err != nil {
		t.Fatal(err)
	}

	sentences := []Sentence{
		{ExternalID: "100", Text: "東京は寒い"},
		{ExternalID: "101", Text: "今日は雪"},
		{ExternalID: "102", Text: "   "},
		{ExternalID: "103", Text: "今日は、寒い！"},
	}
	var progressCalls []int
	ingester := NewIngester(conn, testSegmenter())
	ingester.Workers = 3
	ingester.OnProgress = func(current, total int) { progressCalls = append(progressCalls, current) }

	count, err := ingester.Ingest(context.Background(), sourceID, sentences)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if count != 6 {
		t.Errorf("expected 6 links, got %d", count)
	}

	total, decomposed, err := db.CountSentences(conn, sourceID)
	if err != nil {
		t.Fatal(err)
	}
	// the blank sentence is skipped, the one with 雪 is kept undecomposed
	if total != 3 || decomposed != 2 {
		t.Errorf("expected 3 sentences, 2 decomposed; got %d, %d", total, decomposed)
	}

	examples, err := db.GetSentencesForEntry(conn, "name", "5000000", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(examples) != 1 || examples[0].Text != "東京は寒い" || examples[0].ExternalID != "100" {
		t.Errorf("unexpected examples for 東京: %+v", examples)
	}

	cold, err := db.GetSentencesForEntry(conn, "word", "1294400", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(cold) != 2 {
		t.Errorf("expected 2 sentences with 寒い, got %d", len(cold))
	}

	entries, err := db.GetSentenceEntries(conn, cold[len(cold)-1].ID)
	if err != nil {
		t.Fatal(err)
	}
	// 今日 は 、 寒い ！: punctuation spans carry no links
	if len(entries) != 3 || entries[2].SpanIndex != 3 {
		t.Errorf("unexpected links %+v", entries)
	}

	if len(progressCalls) == 0 || progressCalls[len(progressCalls)-1] != len(sentences) {
		t.Errorf("expected final progress callback, got %v", progressCalls)
	}
}

func TestIngestChangedTextRelinks(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	sourceID, err := db.CreateOrGetSource(conn, db.SourceTatoeba, "Edited", "", "", "", "")
	if err != nil {
		t.Fatal(err)
	}

	ingester := NewIngester(conn, testSegmenter())
	if _, err := ingester.Ingest(context.Background(), sourceID, []Sentence{{Text: "東京は寒い"}, {Text: "今日"}}); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	// start over with the first sentence edited
	if err := db.UpdateSourceProgress(conn, sourceID, -1); err != nil {
		t.Fatal(err)
	}
	count, err := ingester.Ingest(context.Background(), sourceID, []Sentence{{Text: "今日は寒い"}, {Text: "今日"}})
	if err != nil {
		t.Fatalf("re-ingest failed: %v", err)
	}
	if count != 4 {
		t.Errorf("expected 4 links, got %d", count)
	}

	tokyo, err := db.GetSentencesForEntry(conn, "name", "5000000", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokyo) != 0 {
		t.Errorf("links of the old text survived: %+v", tokyo)
	}
	total, _, err := db.CountSentences(conn, sourceID)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("expected 2 sentences, got %d", total)
	}
	cold, err := db.GetSentencesForEntry(conn, "word", "1294400", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(cold) != 1 || cold[0].Text != "今日は寒い" {
		t.Fatalf("unexpected sentences for 寒い: %+v", cold)
	}
	links, err := db.GetSentenceEntries(conn, cold[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 3 {
		t.Errorf("expected 3 links, got %+v", links)
	}
}

func TestIngestContextCancel(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	sourceID, _ := db.CreateOrGetSource(conn, "test", "Title", "", "", "http://test2", "")

	sentences := make([]Sentence, 100)
	for i := range sentences {
		sentences[i] = Sentence{Text: "今日は寒い"}
	}

	ingester := NewIngester(conn, testSegmenter())
	ingester.BatchSize = 10

	// Create a context that is ALREADY canceled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count, err := ingester.Ingest(ctx, sourceID, sentences)
	if count != 0 {
		t.Errorf("Expected 0 linked items with cancelled context, got %d", count)
	}
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled error, got %v", err)
	}
}

// failingPool always returns an error on Submit to simulate producer error.
type failingPool struct{}

func (f *failingPool) Start(ctx context.Context) {}
func (f *failingPool) Submit(job Job) error      { return errors.New("submit failed") }
func (f *failingPool) SubmitCtx(ctx context.Context, job Job) error {
	return errors.New("submit failed")
}
func (f *failingPool) Close() {}

func TestIngestHandlesSubmitError(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	sourceID, err := db.CreateOrGetSource(conn, "test", "SubmitError", "", "", "http://submit", "")
	if err != nil {
		t.Fatal(err)
	}
	sentences := make([]Sentence, 10)
	for i := range sentences {
		sentences[i] = Sentence{Text: "今日は寒い"}
	}

	ingester := NewIngester(conn, testSegmenter())
	ingester.PoolFactory = func(workers, queue int) WorkerPoolInterface { return &failingPool{} }

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = ingester.Ingest(ctx, sourceID, sentences)
	if err == nil || !strings.Contains(err.Error(), "submit failed") {
		t.Fatalf("expected submit error, got %v", err)
	}
}

type brokenSegmenter struct{}

func (brokenSegmenter) Segment(string) ([]segment.Span, error) {
	return nil, errors.New("segmenter exploded")
}

func TestIngestSegmenterError(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	sourceID, _ := db.CreateOrGetSource(conn, "test", "Broken", "", "", "", "")

	ingester := NewIngester(conn, brokenSegmenter{})
	_, err := ingester.Ingest(context.Background(), sourceID, []Sentence{{Text: "今日"}})
	if err == nil || !strings.Contains(err.Error(), "segmenter exploded") {
		t.Fatalf("expected segmenter error, got %v", err)
	}

	ingester.Segmenter = nil
	if _, err := ingester.Ingest(context.Background(), sourceID, []Sentence{{Text: "今日"}}); err == nil {
		t.Fatalf("expected error without segmenter")
	}
}

func TestReadTSV(t *testing.T) {
	in := "4704\tjpn\t今日は寒い。\n\n4705\tjpn\t東京は寒い\nbroken\n"
	got, err := ReadTSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ExternalID != "4704" || got[1].Text != "東京は寒い" {
		t.Fatalf("unexpected sentences %+v", got)
	}
}

func TestFromText(t *testing.T) {
	got := FromText("今日は寒い。 \n\n東京！")
	if len(got) != 2 || got[0].Text != "今日は寒い。" || got[1].Text != "東京！" {
		t.Fatalf("unexpected sentences %+v", got)
	}
}
