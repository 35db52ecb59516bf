package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/japaniel/jiten/pkg/db"
)

// ErrWriterClosed is returned by Submit and Close once the writer is closed.
var ErrWriterClosed = errors.New("sentence writer closed")

// SentenceWriter stores segmented sentences of one source. Records are
// grouped into batches; each batch writes its sentences, replaces their
// entry links and moves the source checkpoint to the batch's last index,
// all in one transaction. Records must be submitted in index order.
//
// After the first failed batch nothing more is committed, so the
// checkpoint never passes a sentence that was not stored.
type SentenceWriter struct {
	conn      *sql.DB
	sourceID  int64
	batchSize int
	interval  time.Duration

	records chan processedSentence
	done    chan struct{}

	// mu guards closed. Submit holds it for reading while it sends.
	mu     sync.RWMutex
	closed bool

	links atomic.Int64
	errMu sync.Mutex
	err   error
}

// NewSentenceWriter starts a writer for sourceID. A batch is committed when
// it holds batchSize records and, if flushInterval is positive, whenever the
// interval elapses with records pending.
func NewSentenceWriter(conn *sql.DB, sourceID int64, batchSize int, flushInterval time.Duration) *SentenceWriter {
	if batchSize <= 0 {
		batchSize = 10
	}
	w := &SentenceWriter{
		conn:      conn,
		sourceID:  sourceID,
		batchSize: batchSize,
		interval:  flushInterval,
		records:   make(chan processedSentence, batchSize),
		done:      make(chan struct{}),
	}
	go w.run()
	return w
}

// Submit queues one record, blocking while the queue is full.
func (w *SentenceWriter) Submit(ctx context.Context, rec processedSentence) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrWriterClosed
	}
	select {
	case w.records <- rec:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Links is the number of entry links in committed batches.
func (w *SentenceWriter) Links() int {
	return int(w.links.Load())
}

// Err returns the error of the failed batch, if any.
func (w *SentenceWriter) Err() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}

func (w *SentenceWriter) fail(err error) {
	w.errMu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.errMu.Unlock()
}

// Close commits pending records and waits for the writer to stop.
func (w *SentenceWriter) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWriterClosed
	}
	w.closed = true
	close(w.records)
	w.mu.Unlock()

	<-w.done
	return w.Err()
}

func (w *SentenceWriter) run() {
	defer close(w.done)

	var tick <-chan time.Time
	if w.interval > 0 {
		t := time.NewTicker(w.interval)
		defer t.Stop()
		tick = t.C
	}

	batch := make([]processedSentence, 0, w.batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		// records after a failure are drained so Submit never blocks
		if w.Err() == nil {
			if err := w.commit(batch); err != nil {
				w.fail(err)
			}
		}
		batch = batch[:0]
	}

	for {
		select {
		case rec, ok := <-w.records:
			if !ok {
				flush()
				return
			}
			batch = append(batch, rec)
			if len(batch) >= w.batchSize {
				flush()
			}
		case <-tick:
			flush()
		}
	}
}

func (w *SentenceWriter) commit(batch []processedSentence) error {
	// Background, so a closing writer still commits what it accepted.
	ctx := context.Background()

	tx, err := w.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	var links int
	for _, rec := range batch {
		n, err := writeSentence(tx, w.sourceID, rec)
		if err != nil {
			return err
		}
		links += n
	}
	last := batch[len(batch)-1].Index
	if err := db.UpdateSourceProgress(tx, w.sourceID, last); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch (%d sentences): %w", len(batch), err)
	}
	w.links.Add(int64(links))
	return nil
}

// writeSentence upserts one sentence and replaces its entry links. Blank
// sentences only move the checkpoint. It returns the number of links written.
func writeSentence(tx db.DBExecutor, sourceID int64, rec processedSentence) (int, error) {
	if rec.Skip {
		return 0, nil
	}
	s := rec.Sentence
	sentenceID, err := db.UpsertSentence(tx, sourceID, rec.Index, s.ExternalID, s.Text, rec.Decomposed)
	if err != nil {
		return 0, fmt.Errorf("failed to persist sentence %d: %w", rec.Index, err)
	}
	// the text at this position may have changed since the last ingest
	if err := db.ClearSentenceEntries(tx, sentenceID); err != nil {
		return 0, fmt.Errorf("failed to clear links of sentence %d: %w", rec.Index, err)
	}
	for _, l := range rec.Links {
		if err := db.LinkEntryToSentence(tx, sentenceID, l.kind, l.key, l.surface, l.span); err != nil {
			return 0, fmt.Errorf("failed to link %s %s: %w", l.kind, l.key, err)
		}
	}
	return len(rec.Links), nil
}
