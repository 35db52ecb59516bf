package build

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TSVSentence is one row of a sentence file: the first field and the last.
type TSVSentence struct {
	ID   string
	Text string
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}

// ReadSentences calls fn for every non-blank row of a tab separated
// sentence file. Rows with a single field are skipped.
func ReadSentences(r io.Reader, fn func(TSVSentence) error) error {
	scanner := newScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		if err := fn(TSVSentence{ID: fields[0], Text: fields[len(fields)-1]}); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

// ReadFrequencies reads term<TAB>...<TAB>rank rows.
func ReadFrequencies(r io.Reader) ([]Frequency, error) {
	var out []Frequency
	scanner := newScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: want at least 2 fields, got %d", line, len(fields))
		}
		rank, err := strconv.ParseUint(strings.TrimSpace(fields[len(fields)-1]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: rank: %w", line, err)
		}
		out = append(out, Frequency{Term: fields[0], Rank: uint32(rank)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}
	return out, nil
}
