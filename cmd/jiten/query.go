package main

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/gookit/color"

	"github.com/japaniel/jiten/pkg/db"
	"github.com/japaniel/jiten/pkg/dictionary"
	"github.com/japaniel/jiten/pkg/ingest"
	"github.com/japaniel/jiten/pkg/segment"
)

type querier struct {
	dict        *dictionary.Dictionary
	examples    *sql.DB
	maxExamples int
}

func (q *querier) run(w io.Writer, raw string) {
	res := q.dict.Query(raw)
	if hint := res.Hint(); hint != "" {
		fmt.Fprintln(w, color.Yellow.Sprint(hint))
	}
	if len(res.Entries) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	for _, e := range res.Entries {
		fmt.Fprintln(w, e.String())
		if e.Kind == dictionary.KindWord {
			q.printExamples(w, e)
		}
	}
}

func (q *querier) printExamples(w io.Writer, e *dictionary.Entry) {
	if q.examples == nil || q.maxExamples == 0 {
		return
	}
	sentences, err := db.GetSentencesForEntry(q.examples, ingest.EntryKind(e.Kind), e.Key(), q.maxExamples)
	if err != nil {
		fmt.Fprintf(w, "Examples unavailable: %v\n", err)
		return
	}
	if len(sentences) == 0 {
		return
	}
	fmt.Fprintln(w, color.Bold.Sprint("Examples:"))
	for _, s := range sentences {
		fmt.Fprintf(w, "  %s\n", s.Text)
	}
	fmt.Fprintln(w)
}

func printSegments(w io.Writer, seg *segment.Segmenter, text string) error {
	sentences, err := seg.SegmentDocument(text)
	if err != nil {
		return err
	}
	for _, s := range sentences {
		if !s.Decomposed {
			fmt.Fprintf(w, "Could not decompose: %s\n", s.Text)
			continue
		}
		for _, sp := range s.Spans {
			if len(sp.Candidates) == 0 {
				continue
			}
			fmt.Fprint(w, sp.String())
		}
	}
	return nil
}
