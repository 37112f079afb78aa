package labeler

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Prompter asks a human for one line of input
type Prompter interface {
	// Ask shows prompt and returns the line typed, without the line ending.
	// choices are the answers worth completing; they may be empty.
	// End of input is reported as io.EOF.
	Ask(prompt string, choices []string) (string, error)
	// Show prints msg followed by a newline
	Show(msg string)
}

// TerminalPrompter reads lines through an x/term line editor with history
// and Tab completion of the offered choices. The caller puts the terminal in
// raw mode.
type TerminalPrompter struct {
	terminal *term.Terminal
	choices  []string
}

// NewTerminalPrompter creates a prompter over rw, usually stdin and stdout
// joined together
func NewTerminalPrompter(rw io.ReadWriter) *TerminalPrompter {
	p := &TerminalPrompter{terminal: term.NewTerminal(rw, "")}
	p.terminal.AutoCompleteCallback = p.complete
	return p
}

// SetSize updates the terminal width and height used for line wrapping
func (p *TerminalPrompter) SetSize(width, height int) error {
	return p.terminal.SetSize(width, height)
}

func (p *TerminalPrompter) Ask(prompt string, choices []string) (string, error) {
	p.choices = choices
	p.terminal.SetPrompt(prompt)
	return p.terminal.ReadLine()
}

func (p *TerminalPrompter) Show(msg string) {
	fmt.Fprintln(p.terminal, msg)
}

// complete expands the text before the cursor to the longest prefix shared
// by every matching choice
func (p *TerminalPrompter) complete(line string, pos int, key rune) (string, int, bool) {
	if key != '\t' {
		return "", 0, false
	}

	prefix := line[:pos]
	var matches []string
	for _, c := range p.choices {
		if strings.HasPrefix(c, prefix) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return "", 0, false
	}

	completion := commonPrefix(matches)
	if len(completion) <= len(prefix) {
		return "", 0, false
	}
	return completion + line[pos:], len(completion), true
}

func commonPrefix(words []string) string {
	prefix := words[0]
	for _, w := range words[1:] {
		for !strings.HasPrefix(w, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	for !utf8.ValidString(prefix) {
		prefix = prefix[:len(prefix)-1]
	}
	return prefix
}

// LinePrompter reads plain lines, for input that is not a terminal
type LinePrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewLinePrompter creates a prompter reading from in and writing to out
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{scanner: bufio.NewScanner(in), out: out}
}

func (p *LinePrompter) Ask(prompt string, choices []string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimRight(p.scanner.Text(), "\r"), nil
}

func (p *LinePrompter) Show(msg string) {
	fmt.Fprintln(p.out, msg)
}
