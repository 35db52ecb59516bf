package build

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrUnknownExtension is returned for a source file the build cannot parse.
	ErrUnknownExtension = errors.New("unknown file extension")
	// ErrMissingSource is returned when a required source group is empty.
	ErrMissingSource = errors.New("required source missing")
)

// ParseError reports a source file that could not be read or decoded.
type ParseError struct {
	Ext  string
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s file %s: %v", e.Ext, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// parseJSON decodes one bank file holding a JSON array of T.
func parseJSON[T any](path string) ([]T, error) {
	ext := filepath.Ext(path)
	if ext != ".json" {
		return nil, &ParseError{Ext: ext, Path: path, Err: ErrUnknownExtension}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Ext: ext, Path: path, Err: err}
	}
	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &ParseError{Ext: ext, Path: path, Err: err}
	}
	return rows, nil
}

// parseFiles runs parse over paths concurrently and concatenates the
// results in path order.
func parseFiles[T any](ctx context.Context, paths []string, parse func(string) ([]T, error)) ([]T, error) {
	parts := make([][]T, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := parse(p)
			if err != nil {
				return err
			}
			parts[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var out []T
	for _, rows := range parts {
		out = append(out, rows...)
	}
	return out, nil
}

// Frequency is one ranked term from a frequency source. Lower is more common.
type Frequency struct {
	Term string
	Rank uint32
}

// parseFrequencyFile dispatches on extension: JSON meta banks keep their
// "freq" rows, TSV files are read with ReadFrequencies.
func parseFrequencyFile(path string) ([]Frequency, error) {
	switch ext := filepath.Ext(path); ext {
	case ".json":
		rows, err := parseJSON[metaRow](path)
		if err != nil {
			return nil, err
		}
		out := make([]Frequency, 0, len(rows))
		for _, r := range rows {
			if r.Mode != "freq" {
				continue
			}
			rank, err := parseFrequency(r.Data)
			if err != nil {
				return nil, &ParseError{Ext: ext, Path: path, Err: fmt.Errorf("%s: %w", r.Expression, err)}
			}
			out = append(out, Frequency{Term: r.Expression, Rank: rank})
		}
		return out, nil
	case ".tsv":
		f, err := os.Open(path)
		if err != nil {
			return nil, &ParseError{Ext: ext, Path: path, Err: err}
		}
		defer f.Close()
		out, err := ReadFrequencies(f)
		if err != nil {
			return nil, &ParseError{Ext: ext, Path: path, Err: err}
		}
		return out, nil
	default:
		return nil, &ParseError{Ext: ext, Path: path, Err: ErrUnknownExtension}
	}
}

// rankMap keeps the best (lowest, non-zero) rank per term.
func rankMap(entries []Frequency) map[string]uint32 {
	m := make(map[string]uint32, len(entries))
	for _, e := range entries {
		if e.Rank == 0 {
			continue
		}
		if cur, ok := m[e.Term]; !ok || e.Rank < cur {
			m[e.Term] = e.Rank
		}
	}
	return m
}

// sourceData is every parsed input of a build.
type sourceData struct {
	wordTerms []termRow
	nameTerms []termRow
	tags      []tagRow
	kanjiTags []tagRow
	kanji     []kanjiRow
	pitch     []metaRow
	wordFreq  []Frequency
	kanjiFreq []Frequency
	krad      []kradRow
	radk      []radkRow
}

// load parses every source group concurrently.
func load(ctx context.Context, src Sources) (*sourceData, error) {
	var d sourceData
	g, ctx := errgroup.WithContext(ctx)

	group := func(dst any, paths []string) {
		g.Go(func() error {
			var err error
			switch dst := dst.(type) {
			case *[]termRow:
				*dst, err = parseFiles(ctx, paths, parseJSON[termRow])
			case *[]tagRow:
				*dst, err = parseFiles(ctx, paths, parseJSON[tagRow])
			case *[]kanjiRow:
				*dst, err = parseFiles(ctx, paths, parseJSON[kanjiRow])
			case *[]metaRow:
				*dst, err = parseFiles(ctx, paths, parseJSON[metaRow])
			case *[]Frequency:
				*dst, err = parseFiles(ctx, paths, parseFrequencyFile)
			case *[]kradRow:
				*dst, err = parseFiles(ctx, paths, parseJSON[kradRow])
			case *[]radkRow:
				*dst, err = parseFiles(ctx, paths, parseJSON[radkRow])
			default:
				panic(fmt.Sprintf("build: no parser for %T", dst))
			}
			return err
		})
	}

	group(&d.wordTerms, src.WordTerms)
	group(&d.nameTerms, src.NameTerms)
	group(&d.tags, concat(src.WordTags, src.NameTags, src.PitchTags))
	group(&d.kanjiTags, src.KanjiTags)
	group(&d.kanji, src.KanjiBanks)
	group(&d.pitch, src.PitchMeta)
	group(&d.wordFreq, src.WordFreq)
	group(&d.kanjiFreq, src.KanjiFreq)
	group(&d.krad, src.Krad)
	group(&d.radk, src.Radk)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func concat(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
