package input

import (
	"bufio"
	"io"
	"os"
)

// Reader is the line source a Prompter reads from. Commands run against
// buffered stdin; tests substitute scripted input.
type Reader interface {
	ReadString(delim byte) (string, error)
}

// StdinReader reads interactive input from os.Stdin.
type StdinReader struct {
	r *bufio.Reader
}

// NewStdinReader creates a Reader over buffered stdin.
func NewStdinReader() *StdinReader {
	return &StdinReader{r: bufio.NewReader(os.Stdin)}
}

func (s *StdinReader) ReadString(delim byte) (string, error) {
	return s.r.ReadString(delim)
}

// StringReader replays a fixed sequence of lines. Each line must carry
// its own delimiter ("8080\n"); the delim argument is not consulted.
type StringReader struct {
	lines []string
	next  int
}

// NewStringReader creates a StringReader over the given lines.
func NewStringReader(lines ...string) *StringReader {
	return &StringReader{lines: lines}
}

// ReadString returns the next scripted line, io.EOF once exhausted.
func (s *StringReader) ReadString(delim byte) (string, error) {
	if s.next >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.next]
	s.next++
	return line, nil
}
