package dictionary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gookit/color"
)

func bold(s string) string {
	return color.Bold.Sprint(s)
}

func tagDescriptions(tags []Tag) string {
	descs := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.Description != "" {
			descs = append(descs, t.Description)
		}
	}
	return strings.Join(descs, ", ")
}

// String renders the entry for the terminal.
func (e *Entry) String() string {
	var b strings.Builder
	switch e.Kind {
	case KindWord:
		renderWord(&b, e.Word)
	case KindName:
		renderName(&b, e.Name)
	case KindKanji:
		renderKanji(&b, e.Kanji)
	case KindRadical:
		renderRadical(&b, e.Radical)
	}
	return b.String()
}

func renderWord(b *strings.Builder, w *Word) {
	fmt.Fprintf(b, "%s %s\n", bold("Word:"), w.Vocabulary)
	if w.Romaji != "" {
		fmt.Fprintf(b, "%s %s (%s)\n", bold("Reading:"), w.Reading, w.Romaji)
	} else {
		fmt.Fprintf(b, "%s %s\n", bold("Reading:"), w.Reading)
	}
	fmt.Fprintln(b, bold("Meanings:"))
	for i, m := range w.Meanings {
		fmt.Fprintf(b, "%d. %s\n", i+1, m)
	}
	if len(w.Conjugations) > 0 {
		forms := make([]string, len(w.Conjugations))
		for i, f := range w.Conjugations {
			forms[i] = f.Kanji
		}
		fmt.Fprintf(b, "%s %s\n", bold("Conjugations:"), strings.Join(forms, "、"))
	}
	if w.Frequency > 0 {
		fmt.Fprintf(b, "%s %d\n", bold("Frequency:"), w.Frequency)
	}
	for _, p := range w.Pitches {
		fmt.Fprintf(b, "%s %s [%d]\n", bold("Pitch:"), p.Reading, p.Position)
	}
	fmt.Fprintf(b, "%s %d\n", bold("ID:"), w.ID)
	if tags := tagDescriptions(w.Tags); tags != "" {
		fmt.Fprintln(b, tags)
	}
}

func renderName(b *strings.Builder, n *Name) {
	fmt.Fprintf(b, "%s %s\n", bold("Name:"), n.Name)
	fmt.Fprintf(b, "%s %s\n", bold("Reading:"), n.Reading)
	fmt.Fprintf(b, "%s %s\n", bold("Translations:"), strings.Join(n.Translations, ", "))
	if tags := tagDescriptions(n.Tags); tags != "" {
		fmt.Fprintln(b, tags)
	}
	fmt.Fprintf(b, "%s %d\n", bold("ID:"), n.ID)
}

func renderKanji(b *strings.Builder, k *Kanji) {
	fmt.Fprintf(b, "%s %s\n", bold("Kanji:"), k.Kanji)
	fmt.Fprintf(b, "%s %s\n", bold("Meanings:"), strings.Join(k.Meanings, ", "))
	fmt.Fprintf(b, "%s %s\n", bold("Kun:"), strings.Join(k.KunYomi, "、"))
	fmt.Fprintf(b, "%s %s\n", bold("On:"), strings.Join(k.OnYomi, "、"))
	fmt.Fprintf(b, "%s %d\n", bold("Strokes:"), k.Strokes)
	if k.Frequency > 0 {
		fmt.Fprintf(b, "%s %d\n", bold("Frequency:"), k.Frequency)
	}
	if k.JLPT > 0 {
		fmt.Fprintf(b, "%s level N%d\n", bold("JLPT"), k.JLPT)
	}
	if k.Grade > 0 {
		fmt.Fprintf(b, "Taught in %s %d\n", bold("grade"), k.Grade)
	}
	if len(k.Radicals) > 0 {
		fmt.Fprintf(b, "%s %s\n", bold("Radicals:"), strings.Join(k.Radicals, "、"))
	}
	attrs := make([]string, 0, len(k.Attributes))
	for name := range k.Attributes {
		attrs = append(attrs, name)
	}
	sort.Strings(attrs)
	for _, name := range attrs {
		fmt.Fprintf(b, "%s: %s\n", bold(name), k.Attributes[name])
	}
	if tags := tagDescriptions(k.Tags); tags != "" {
		fmt.Fprintln(b, tags)
	}
	fmt.Fprintf(b, "%s %d\n", bold("ID:"), k.ID)
}

func renderRadical(b *strings.Builder, r *Radical) {
	fmt.Fprintf(b, "%s %s\n", bold("Radical:"), r.Radical)
	fmt.Fprintf(b, "%s %d\n", bold("Strokes:"), r.Strokes)
	fmt.Fprintf(b, "%s %s\n", bold("Part of:"), strings.Join(r.Kanji, "、"))
}
