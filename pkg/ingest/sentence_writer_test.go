package ingest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/jiten/pkg/db"
)

func record(index int, text string, links ...link) processedSentence {
	return processedSentence{
		Index:      index,
		Sentence:   Sentence{Text: text},
		Decomposed: len(links) > 0,
		Links:      links,
	}
}

func wordLink(key, surface string, span int) link {
	return link{kind: "word", key: key, surface: surface, span: span}
}

func newSource(t *testing.T, conn *sql.DB, title string) int64 {
	t.Helper()
	id, err := db.CreateOrGetSource(conn, db.SourceTatoeba, title, "", "", "", "")
	require.NoError(t, err)
	return id
}

func progressOf(t *testing.T, conn *sql.DB, sourceID int64) int {
	t.Helper()
	p, err := db.GetSourceProgress(conn, sourceID)
	require.NoError(t, err)
	return p
}

func TestSentenceWriterCommitsBatches(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	sourceID := newSource(t, conn, "Batches")
	ctx := context.Background()

	w := NewSentenceWriter(conn, sourceID, 2, 0)
	// batch size 2: the second record commits the first batch
	require.NoError(t, w.Submit(ctx, record(0, "今日は寒い", wordLink("1579110", "今日", 0), wordLink("1294400", "寒い", 2))))
	require.NoError(t, w.Submit(ctx, processedSentence{Index: 1, Skip: true}))
	// the third is committed by Close
	require.NoError(t, w.Submit(ctx, record(2, "寒い", wordLink("1294400", "寒い", 0))))

	done := make(chan error, 1)
	go func() { done <- w.Close() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for the writer to close")
	}

	total, decomposed, err := db.CountSentences(conn, sourceID)
	require.NoError(t, err)
	assert.Equal(t, 2, total, "blank sentences are not stored")
	assert.Equal(t, 2, decomposed)
	assert.Equal(t, 2, progressOf(t, conn, sourceID))
	assert.Equal(t, 3, w.Links())

	assert.ErrorIs(t, w.Submit(ctx, record(3, "今日")), ErrWriterClosed)
	assert.ErrorIs(t, w.Close(), ErrWriterClosed)
}

func TestSentenceWriterStopsAfterFailedBatch(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	sourceID := newSource(t, conn, "Rollback")
	ctx := context.Background()

	w := NewSentenceWriter(conn, sourceID, 2, 0)
	// the blank, unskipped record fails its batch; the first one rolls back with it
	require.NoError(t, w.Submit(ctx, record(0, "今日は寒い", wordLink("1294400", "寒い", 2))))
	require.NoError(t, w.Submit(ctx, record(1, "   ")))
	// a later, valid batch must not move the checkpoint past index 1
	require.NoError(t, w.Submit(ctx, record(2, "今日")))
	require.NoError(t, w.Submit(ctx, record(3, "寒い")))

	err := w.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist sentence 1")
	assert.Equal(t, err, w.Err())

	total, _, err := db.CountSentences(conn, sourceID)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Equal(t, -1, progressOf(t, conn, sourceID))
	assert.Zero(t, w.Links())
}

func TestSentenceWriterFlushesOnInterval(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	sourceID := newSource(t, conn, "Interval")

	w := NewSentenceWriter(conn, sourceID, 10, 20*time.Millisecond)
	defer w.Close()
	require.NoError(t, w.Submit(context.Background(), record(0, "今日")))

	// well below the batch size, so only the interval can commit it
	assert.Eventually(t, func() bool {
		p, err := db.GetSourceProgress(conn, sourceID)
		return err == nil && p == 0
	}, time.Second, 10*time.Millisecond)
}

func TestSentenceWriterReplacesLinks(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	sourceID := newSource(t, conn, "Relink")
	ctx := context.Background()

	w := NewSentenceWriter(conn, sourceID, 1, 0)
	require.NoError(t, w.Submit(ctx, record(0, "今日は寒い", wordLink("1579110", "今日", 0), wordLink("1294400", "寒い", 2))))
	require.NoError(t, w.Close())

	// the same position again with different text
	w = NewSentenceWriter(conn, sourceID, 1, 0)
	require.NoError(t, w.Submit(ctx, record(0, "今日は雪", wordLink("1579110", "今日", 0))))
	require.NoError(t, w.Close())

	cold, err := db.GetSentencesForEntry(conn, "word", "1294400", 5)
	require.NoError(t, err)
	assert.Empty(t, cold, "links of the replaced text must be gone")

	today, err := db.GetSentencesForEntry(conn, "word", "1579110", 5)
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, "今日は雪", today[0].Text)

	links, err := db.GetSentenceEntries(conn, today[0].ID)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestSentenceWriterSubmitCanceled(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	sourceID := newSource(t, conn, "Canceled")

	w := NewSentenceWriter(conn, sourceID, 1, 0)
	defer w.Close()

	// hold the only connection so the committer blocks and the queue fills up
	tx, err := conn.Begin()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	var submitErr error
	for i := 0; i < 10 && submitErr == nil; i++ {
		submitErr = w.Submit(ctx, record(i, "今日"))
	}
	assert.ErrorIs(t, submitErr, context.DeadlineExceeded)
	require.NoError(t, tx.Rollback())
}
