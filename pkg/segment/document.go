package segment

import (
	"errors"
	"strings"
)

// Sentence is one sentence of a document and its decomposition.
// Spans is nil when the sentence could not be decomposed.
type Sentence struct {
	Text       string
	Spans      []Span
	Decomposed bool
}

// SegmentDocument splits text into sentences and segments each one.
// Undecomposed sentences are kept with Decomposed unset.
func (s *Segmenter) SegmentDocument(text string) ([]Sentence, error) {
	var result []Sentence
	for _, raw := range SplitSentences(text) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		spans, err := s.Segment(raw)
		if err != nil && !errors.Is(err, ErrUndecomposed) {
			return nil, err
		}
		result = append(result, Sentence{
			Text:       raw,
			Spans:      spans,
			Decomposed: err == nil,
		})
	}
	return result, nil
}

// SplitSentences splits on 。！？ and newlines, keeping the delimiter with
// its sentence.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '。' || r == '！' || r == '？' || r == '\n' {
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}
