package main

import (
	"bytes"
	"database/sql"
	"testing"

	"github.com/gookit/color"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/jiten/pkg/db"
	"github.com/japaniel/jiten/pkg/dictionary"
	"github.com/japaniel/jiten/pkg/segment"
)

func testDictionary() *dictionary.Dictionary {
	return dictionary.New([]dictionary.Entry{
		dictionary.NewWord(dictionary.Word{Vocabulary: "今日", Reading: "きょう", Meanings: []string{"today"}, ID: 1579110}),
		dictionary.NewWord(dictionary.Word{Vocabulary: "は", Reading: "は", Meanings: []string{"topic marker"}, ID: 2028920}),
		dictionary.NewWord(dictionary.Word{Vocabulary: "寒い", Reading: "さむい", Meanings: []string{"cold"}, ID: 1294400}),
	})
}

func setupExamples(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	require.NoError(t, db.InitDB(conn))
	t.Cleanup(func() { conn.Close() })

	sourceID, err := db.CreateOrGetSource(conn, db.SourceTatoeba, "test", "", "", "", "")
	require.NoError(t, err)
	for i, text := range []string{"今日は本当に寒い。", "今日は寒い。"} {
		id, err := db.UpsertSentence(conn, sourceID, i, "", text, true)
		require.NoError(t, err)
		require.NoError(t, db.LinkEntryToSentence(conn, id, "word", "1579110", "今日", 0))
	}
	return conn
}

func TestMain(m *testing.M) {
	color.Disable()
	m.Run()
}

func TestQuerierRun(t *testing.T) {
	q := &querier{dict: testDictionary(), examples: setupExamples(t), maxExamples: 1}

	var out bytes.Buffer
	q.run(&out, "kyou")
	got := out.String()
	assert.Contains(t, got, "Searched for きょう")
	assert.Contains(t, got, "Word: 今日")
	assert.Contains(t, got, "Examples:")
	assert.Contains(t, got, "今日は寒い。")
	assert.NotContains(t, got, "本当に", "examples are limited and shortest first")
}

func TestQuerierNoResults(t *testing.T) {
	q := &querier{dict: testDictionary()}

	var out bytes.Buffer
	q.run(&out, "#kanji 犬")
	assert.Equal(t, "No results.\n", out.String())
}

func TestQuerierWithoutExamples(t *testing.T) {
	q := &querier{dict: testDictionary(), maxExamples: 3}

	var out bytes.Buffer
	q.run(&out, "寒い")
	assert.Contains(t, out.String(), "Word: 寒い")
	assert.NotContains(t, out.String(), "Examples:")
}

func TestPrintSegments(t *testing.T) {
	seg := segment.New(testDictionary())
	seg.SkipSeparators = true

	var out bytes.Buffer
	err := printSegments(&out, seg, "今日は寒い。今日は雪。")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "寒い")
	assert.Contains(t, out.String(), "Could not decompose: 今日は雪。")
}
