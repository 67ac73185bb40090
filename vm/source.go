package vm

import (
	"bufio"
	"os"
	"strings"
)

// Source is a line-indexed, immutable snapshot of a method's (or a whole
// class file's) Smali text. Lines are 1-based to match Smali's own pc
// convention: pc points at the line that is about to execute.
type Source struct {
	lines []string
}

// NewSourceFromString builds a Source from an in-memory string, normalizing
// CRLF and LF line endings and preserving order.
func NewSourceFromString(text string) *Source {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	return &Source{lines: strings.Split(normalized, "\n")}
}

// NewSourceFromLines builds a Source directly from an ordered line slice,
// e.g. the body lines ParseJavaClass collects for a single method.
func NewSourceFromLines(lines []string) *Source {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return &Source{lines: cp}
}

// NewSourceFromFile reads a whole Smali listing off disk.
func NewSourceFromFile(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lines := make([]string, 0, 256)
	scanner := bufio.NewScanner(file)
	// Smali lines inside string literals can exceed bufio's default token
	// size if a file has very long annotation values; give it headroom.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &Source{lines: lines}, nil
}

// Get returns the 1-based line, trimmed of leading/trailing whitespace.
func (s *Source) Get(lineNo int) (string, bool) {
	if !s.HasLine(lineNo) {
		return "", false
	}
	return strings.TrimSpace(s.lines[lineNo-1]), true
}

// HasLine reports whether lineNo is a valid 1-based index into the source.
func (s *Source) HasLine(lineNo int) bool {
	return lineNo >= 1 && lineNo <= len(s.lines)
}

// Len returns index_bound, the number of lines in the buffer.
func (s *Source) Len() int {
	return len(s.lines)
}

// Lines returns every line, trimmed, in order. Used by the preprocessor,
// which needs a single normalized pass before building its lookup tables.
func (s *Source) Lines() []string {
	out := make([]string, len(s.lines))
	for i, l := range s.lines {
		out[i] = strings.TrimSpace(l)
	}
	return out
}
