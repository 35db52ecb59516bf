package db

import "time"

// Source is a provenance record for a batch of sentences.
type Source struct {
	ID         int64
	SourceType string
	Title      string
	Author     string
	Website    string
	URL        string
	Meta       string
	AddedAt    time.Time
}

// Sentence is one stored sentence. Position is its index within the source.
type Sentence struct {
	ID         int64
	SourceID   int64
	Position   int
	ExternalID string
	Text       string
	Decomposed bool
}

// SentenceEntry links a span of a sentence to a dictionary entry.
type SentenceEntry struct {
	ID         int64
	SentenceID int64
	EntryKind  string
	EntryKey   string
	Surface    string
	SpanIndex  int
}

// Source types.
const (
	SourceTatoeba = "tatoeba"
	SourceArticle = "website_article"
)
