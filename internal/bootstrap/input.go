package bootstrap

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// InputProvider supplies answers to interactive prompts. Tests and scripted
// runs inject canned answers; the terminal provider reads stdin.
type InputProvider interface {
	ReadLine(prompt string) (string, error)
}

type terminalInput struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewTerminalInput returns an InputProvider that prints prompts to w and
// reads answers from r.
func NewTerminalInput(r io.Reader, w io.Writer) InputProvider {
	return &terminalInput{reader: bufio.NewReader(r), writer: w}
}

func (t *terminalInput) ReadLine(prompt string) (string, error) {
	if _, err := fmt.Fprint(t.writer, prompt); err != nil {
		return "", err
	}
	line, err := t.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

type staticInput struct {
	answers []string
	next    int
}

// StaticInput returns an InputProvider that replays the given answers in
// order, then keeps answering with an empty string.
func StaticInput(answers ...string) InputProvider {
	return &staticInput{answers: answers}
}

func (s *staticInput) ReadLine(string) (string, error) {
	if s.next >= len(s.answers) {
		return "", nil
	}
	answer := s.answers[s.next]
	s.next++
	return strings.TrimSpace(answer), nil
}
