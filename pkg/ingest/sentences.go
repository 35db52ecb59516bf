package ingest

import (
	"io"
	"strings"

	"github.com/japaniel/jiten/pkg/build"
	"github.com/japaniel/jiten/pkg/segment"
)

// ReadTSV reads a sentence file: first field is the id, last the sentence.
func ReadTSV(r io.Reader) ([]Sentence, error) {
	var out []Sentence
	err := build.ReadSentences(r, func(s build.TSVSentence) error {
		out = append(out, Sentence{ExternalID: s.ID, Text: s.Text})
		return nil
	})
	return out, err
}

// FromText splits free text into sentences, dropping blank ones.
func FromText(text string) []Sentence {
	var out []Sentence
	for _, s := range segment.SplitSentences(text) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, Sentence{Text: s})
		}
	}
	return out
}
