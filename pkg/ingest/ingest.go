// Package ingest segments sentences and stores them, with the dictionary
// entries found in them, as example sentences.
package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/japaniel/jiten/pkg/db"
	"github.com/japaniel/jiten/pkg/dictionary"
	"github.com/japaniel/jiten/pkg/segment"
)

// Segmenter decomposes one sentence. *segment.Segmenter implements it.
type Segmenter interface {
	Segment(sentence string) ([]segment.Span, error)
}

// WorkerPoolInterface abstracts the worker pool so tests can inject failing implementations.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	Submit(Job) error
	// SubmitCtx attempts to enqueue a job but returns promptly if ctx is canceled.
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// Sentence is one sentence to ingest. ExternalID is the id the source uses
// for it, if any.
type Sentence struct {
	ExternalID string
	Text       string
}

// Ingester handles the ingestion of sentences into the database.
type Ingester struct {
	DB        *sql.DB
	Segmenter Segmenter
	BatchSize int
	// Logger is used for informational messages (e.g. resume status). nil means no logging.
	Logger *log.Logger
	// OnProgress is called periodically with the number of processed sentences and total sentences.
	OnProgress func(current, total int)

	Workers int

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// NewIngester creates a new Ingester.
func NewIngester(conn *sql.DB, seg Segmenter) *Ingester {
	return &Ingester{
		DB:        conn,
		Segmenter: seg,
		BatchSize: 50,
		Workers:   4,
	}
}

// EntryKind is the entry_kind value stored for k.
func EntryKind(k dictionary.Kind) string {
	return strings.ToLower(k.String())
}

// link is one candidate entry of one span.
type link struct {
	kind    string
	key     string
	surface string
	span    int
}

// processedSentence holds the result of segmenting a sentence before DB ingestion.
type processedSentence struct {
	Index      int
	Sentence   Sentence
	Decomposed bool
	Links      []link
	// Skip marks blank sentences; only progress is recorded for them.
	Skip  bool
	Error error
}

func (ig *Ingester) logf(format string, args ...any) {
	if ig.Logger != nil {
		ig.Logger.Printf(format, args...)
	}
}

// Ingest segments sentences and saves them to the database using concurrent
// workers and batched writes. It resumes after the last checkpoint of
// sourceID and returns the number of entry links written.
func (ig *Ingester) Ingest(ctx context.Context, sourceID int64, sentences []Sentence) (int, error) {
	if ig.Segmenter == nil {
		return 0, errors.New("ingest: no segmenter configured")
	}
	lastProcessed, err := db.GetSourceProgress(ig.DB, sourceID)
	if err != nil {
		ig.logf("Warning: Failed to retrieve progress: %v", err)
		lastProcessed = -1
	}
	if lastProcessed >= 0 {
		ig.logf("Resuming from sentence index %d (skipping %d sentences)", lastProcessed+1, lastProcessed+1)
	}

	totalSentences := len(sentences)
	startIdx := lastProcessed + 1
	if startIdx >= totalSentences {
		return 0, nil
	}
	progressEvery := max(ig.BatchSize, 1)
	workers := max(ig.Workers, 1)

	var wp WorkerPoolInterface
	if ig.PoolFactory != nil {
		wp = ig.PoolFactory(workers, workers*2)
	} else {
		wp = NewWorkerPool(workers, workers*2)
	}
	resultCh := make(chan processedSentence, workers*2)
	closedResultCh := false

	doneCh := make(chan error, 1)

	sw := NewSentenceWriter(ig.DB, sourceID, ig.BatchSize, 100*time.Millisecond)

	defer func() {
		wp.Close()
		if !closedResultCh {
			close(resultCh)
		}
		// Best-effort close; ignore already-closed errors
		_ = sw.Close()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wp.Start(ctx)

	// The consumer writes results in sentence order so the checkpoint
	// never skips an unwritten sentence.
	go func() {
		defer close(doneCh)
		buffer := make(map[int]processedSentence)
		nextIdx := startIdx

		flushContiguous := func() error {
			for {
				item, ok := buffer[nextIdx]
				if !ok {
					return nil
				}
				delete(buffer, nextIdx)
				if err := sw.Submit(ctx, item); err != nil {
					return err
				}
				nextIdx++
				// approximate, the batch might not be flushed yet
				if ig.OnProgress != nil && nextIdx%progressEvery == 0 {
					ig.OnProgress(nextIdx, totalSentences)
				}
			}
		}

		for {
			select {
			case <-ctx.Done():
				doneCh <- ctx.Err()
				return
			default:
			}

			res, ok := <-resultCh
			if !ok {
				if err := flushContiguous(); err != nil {
					cancel()
					doneCh <- err
					return
				}
				if ig.OnProgress != nil {
					ig.OnProgress(totalSentences, totalSentences)
				}
				doneCh <- nil
				return
			}

			if res.Error != nil {
				// Stop producers so they don't block writing to resultCh.
				cancel()
				doneCh <- res.Error
				return
			}
			buffer[res.Index] = res

			if err := flushContiguous(); err != nil {
				cancel()
				doneCh <- err
				return
			}
		}
	}()

Loop:
	for i := startIdx; i < totalSentences; i++ {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		idx := i
		sent := sentences[i]

		job := func(ctx context.Context) error {
			res := ig.processSentence(idx, sent)
			select {
			case resultCh <- res:
			case <-ctx.Done():
			}
			return nil
		}

		if err := wp.SubmitCtx(ctx, job); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, ErrPoolClosed) {
				break Loop
			}
			return 0, err
		}
	}

	// Workers are done once Close returns, so nothing sends on resultCh after this.
	wp.Close()
	close(resultCh)
	closedResultCh = true

	consumerErr := <-doneCh

	if err := sw.Close(); err != nil && consumerErr == nil {
		consumerErr = err
	}

	return sw.Links(), consumerErr
}

// processSentence segments one sentence and collects the candidate links
// of every span. An undecomposed sentence is kept without links.
func (ig *Ingester) processSentence(index int, s Sentence) processedSentence {
	res := processedSentence{Index: index, Sentence: s}
	text := strings.TrimSpace(s.Text)
	if text == "" {
		res.Skip = true
		return res
	}
	res.Sentence.Text = text

	spans, err := ig.Segmenter.Segment(text)
	if errors.Is(err, segment.ErrUndecomposed) {
		return res
	}
	if err != nil {
		res.Error = fmt.Errorf("segment sentence %d: %w", index, err)
		return res
	}
	res.Decomposed = true
	for i, sp := range spans {
		for _, c := range sp.Candidates {
			res.Links = append(res.Links, link{
				kind:    EntryKind(c.Kind),
				key:     c.Key(),
				surface: sp.Surface,
				span:    i,
			})
		}
	}
	return res
}
