package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// isUniqueConstraintErr returns true when the error indicates a unique/constraint violation
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "constraint failed")
}

// CreateOrGetSource returns existing source id or inserts a new source and returns its id.
// Sources are identified by url, title and author.
func CreateOrGetSource(db DBExecutor, sourceType, title, author, website, url, meta string) (int64, error) {
	trimmedSourceType := strings.TrimSpace(sourceType)
	if trimmedSourceType == "" {
		return 0, fmt.Errorf("sourceType must be non-empty")
	}

	const maxRetries = 3

	var id int64
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := db.QueryRow(
			`SELECT id FROM sources WHERE IFNULL(url, '') = ? AND IFNULL(title, '') = ? AND IFNULL(author, '') = ?`,
			url, title, author,
		).Scan(&id)
		if err == nil {
			return id, nil
		}
		if err != sql.ErrNoRows {
			return 0, err
		}

		res, err := db.Exec(
			`INSERT INTO sources (source_type, title, author, website, url, meta) VALUES (?, ?, ?, ?, ?, ?)`,
			trimmedSourceType, title, author, website, url, meta,
		)
		if err != nil {
			// another writer inserted the same source; select again
			if isUniqueConstraintErr(err) {
				continue
			}
			return 0, err
		}
		return res.LastInsertId()
	}

	return 0, fmt.Errorf("could not create or get source after %d retries", maxRetries)
}

// UpsertSentence stores the sentence at position within a source, replacing
// what was there, and returns its id. Re-ingesting a source is idempotent.
func UpsertSentence(db DBExecutor, sourceID int64, position int, externalID, text string, decomposed bool) (int64, error) {
	if sourceID <= 0 {
		return 0, fmt.Errorf("sourceID must be positive")
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, fmt.Errorf("sentence text must be non-empty")
	}

	var id int64
	err := db.QueryRow(`INSERT INTO sentences (source_id, position, external_id, text, decomposed)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(source_id, position) DO UPDATE SET
	  external_id = excluded.external_id,
	  text = excluded.text,
	  decomposed = excluded.decomposed
	RETURNING id`, sourceID, position, nullableString(externalID), trimmed, decomposed).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert sentence: %w", err)
	}
	return id, nil
}

// ClearSentenceEntries removes every entry link of a sentence. Ingestion
// calls it before relinking a sentence whose text may have changed.
func ClearSentenceEntries(db DBExecutor, sentenceID int64) error {
	if sentenceID <= 0 {
		return fmt.Errorf("sentenceID must be positive")
	}
	_, err := db.Exec(`DELETE FROM sentence_entries WHERE sentence_id = ?`, sentenceID)
	return err
}

// LinkEntryToSentence records that span spanIndex of a sentence is a
// candidate for the entry (kind, key). Duplicate links are ignored.
func LinkEntryToSentence(db DBExecutor, sentenceID int64, kind, key, surface string, spanIndex int) error {
	if sentenceID <= 0 {
		return fmt.Errorf("sentenceID must be positive")
	}
	if kind == "" || key == "" {
		return fmt.Errorf("entry kind and key must be non-empty")
	}
	if spanIndex < 0 {
		return fmt.Errorf("spanIndex must not be negative, got %d", spanIndex)
	}
	_, err := db.Exec(`INSERT INTO sentence_entries (sentence_id, entry_kind, entry_key, surface, span_index)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT DO NOTHING`, sentenceID, kind, key, surface, spanIndex)
	return err
}

// nullableString returns nil for "" else the value.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// GetSentencesForEntry returns up to limit sentences containing the entry,
// shortest first.
func GetSentencesForEntry(db DBExecutor, kind, key string, limit int) ([]Sentence, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := db.Query(`SELECT s.id, s.source_id, s.position, s.external_id, s.text, s.decomposed
	FROM sentences s
	WHERE s.id IN (SELECT sentence_id FROM sentence_entries WHERE entry_kind = ? AND entry_key = ?)
	ORDER BY length(s.text), s.id
	LIMIT ?`, kind, key, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sentence
	for rows.Next() {
		var s Sentence
		var ext sql.NullString
		if err := rows.Scan(&s.ID, &s.SourceID, &s.Position, &ext, &s.Text, &s.Decomposed); err != nil {
			return nil, err
		}
		if ext.Valid {
			s.ExternalID = ext.String
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSentenceEntries returns the links of one sentence in span order.
func GetSentenceEntries(db DBExecutor, sentenceID int64) ([]SentenceEntry, error) {
	rows, err := db.Query(`SELECT id, sentence_id, entry_kind, entry_key, surface, span_index
	FROM sentence_entries WHERE sentence_id = ? ORDER BY span_index, id`, sentenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SentenceEntry
	for rows.Next() {
		var e SentenceEntry
		if err := rows.Scan(&e.ID, &e.SentenceID, &e.EntryKind, &e.EntryKey, &e.Surface, &e.SpanIndex); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountSentences returns how many sentences a source has and how many of
// them were decomposed.
func CountSentences(db DBExecutor, sourceID int64) (total, decomposed int, err error) {
	err = db.QueryRow(`SELECT COUNT(*), IFNULL(SUM(decomposed), 0) FROM sentences WHERE source_id = ?`, sourceID).
		Scan(&total, &decomposed)
	return total, decomposed, err
}

// ErrSourceNotFound is returned for progress lookups on an unknown source.
var ErrSourceNotFound = errors.New("source not found")

// GetSourceProgress returns the last processed sentence index for a source.
func GetSourceProgress(db DBExecutor, sourceID int64) (int, error) {
	var index int
	err := db.QueryRow("SELECT last_processed_sentence FROM sources WHERE id = ?", sourceID).Scan(&index)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: %d", ErrSourceNotFound, sourceID)
	}
	if err != nil {
		return 0, err
	}
	return index, nil
}

// UpdateSourceProgress updates the last processed sentence index.
func UpdateSourceProgress(db DBExecutor, sourceID int64, index int) error {
	_, err := db.Exec("UPDATE sources SET last_processed_sentence = ? WHERE id = ?", index, sourceID)
	return err
}
