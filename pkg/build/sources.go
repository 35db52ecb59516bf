package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Rows of the yomichan-style banks are positional JSON arrays.

func unmarshalFields(raw []json.RawMessage, dst ...any) error {
	if len(raw) < len(dst) {
		return fmt.Errorf("row has %d fields, want %d", len(raw), len(dst))
	}
	for i, d := range dst {
		if d == nil {
			continue
		}
		if err := json.Unmarshal(raw[i], d); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
	}
	return nil
}

func unmarshalRow(b []byte, dst ...any) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	return unmarshalFields(raw, dst...)
}

// termRow is [expression, reading, definitionTags, rules, score, glossary, sequence, termTags].
type termRow struct {
	Expression     string
	Reading        string
	DefinitionTags string
	Rules          string
	Score          float64
	Glossary       []string
	Sequence       uint32
	TermTags       string
}

func (r *termRow) UnmarshalJSON(b []byte) error {
	var glossary []json.RawMessage
	if err := unmarshalRow(b, &r.Expression, &r.Reading, &r.DefinitionTags, &r.Rules,
		&r.Score, &glossary, &r.Sequence, &r.TermTags); err != nil {
		return err
	}
	r.Glossary = glossaryText(glossary)
	return nil
}

// glossaryText keeps plain string glosses and the text of simple
// {"type":"text"} objects. Structured content is skipped.
func glossaryText(items []json.RawMessage) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.Text != "" {
			out = append(out, obj.Text)
		}
	}
	return out
}

// kanjiRow is [character, onyomi, kunyomi, tags, meanings, stats].
type kanjiRow struct {
	Character string
	OnYomi    string
	KunYomi   string
	Tags      string
	Meanings  []string
	Stats     map[string]string
}

func (r *kanjiRow) UnmarshalJSON(b []byte) error {
	return unmarshalRow(b, &r.Character, &r.OnYomi, &r.KunYomi, &r.Tags, &r.Meanings, &r.Stats)
}

// tagRow is [name, category, order, notes, score].
type tagRow struct {
	Name     string
	Category string
	Notes    string
}

func (r *tagRow) UnmarshalJSON(b []byte) error {
	return unmarshalRow(b, &r.Name, &r.Category, nil, &r.Notes, nil)
}

// metaRow is [expression, mode, data] where mode is "freq" or "pitch".
type metaRow struct {
	Expression string
	Mode       string
	Data       json.RawMessage
}

func (r *metaRow) UnmarshalJSON(b []byte) error {
	return unmarshalRow(b, &r.Expression, &r.Mode, &r.Data)
}

type pitchData struct {
	Reading string `json:"reading"`
	Pitches []struct {
		Position int      `json:"position"`
		Tags     []string `json:"tags"`
	} `json:"pitches"`
}

var errNoFrequency = errors.New("no frequency value")

// parseFrequency accepts a number, a numeric string, {"value": n} or
// {"frequency": n | {"value": n}}.
func parseFrequency(raw json.RawMessage) (uint32, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return uint32(n), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return 0, err
		}
		return uint32(v), nil
	}
	var obj struct {
		Value     *float64        `json:"value"`
		Frequency json.RawMessage `json:"frequency"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, err
	}
	if obj.Value != nil {
		return uint32(*obj.Value), nil
	}
	if len(obj.Frequency) > 0 {
		return parseFrequency(obj.Frequency)
	}
	return 0, errNoFrequency
}

// kradRow lists the radicals of one kanji.
type kradRow struct {
	Kanji    string   `json:"kanji"`
	Radicals []string `json:"radicals"`
}

// radkRow lists the kanji containing one radical.
type radkRow struct {
	Radical string `json:"radical"`
	Strokes int    `json:"strokes"`
	Kanji   string `json:"kanji"`
}
