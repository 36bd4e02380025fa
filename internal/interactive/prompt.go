// Package interactive runs question-and-answer sessions with the operator
// and provides the loop that repeats a question sequence until told to stop.
package interactive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrInputClosed is returned when operator input ends before a question is answered.
var ErrInputClosed = errors.New("input closed before the question was answered")

// Tone selects how a Say message is styled.
type Tone int

const (
	ToneInfo Tone = iota
	ToneSuccess
	ToneWarn
)

// Asker presents question sequences to the operator.
type Asker interface {
	// Ask presents questions in order, skipping those whose When returns
	// false, and returns once every remaining question has a valid answer.
	Ask(questions []Question) (Answers, error)
	// Say shows a message between question sequences.
	Say(tone Tone, format string, args ...any)
}

type styles struct {
	marker  lipgloss.Style
	message lipgloss.Style
	hint    lipgloss.Style
	invalid lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		marker:  r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		message: r.NewStyle().Bold(true),
		hint:    r.NewStyle().Faint(true),
		invalid: r.NewStyle().Foreground(lipgloss.Color("1")),
		info:    r.NewStyle().Foreground(lipgloss.Color("5")),
		success: r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// Session is a line-oriented Asker reading answers from an io.Reader.
type Session struct {
	out     io.Writer
	scanner *bufio.Scanner
	styles  styles
}

// NewSession creates a session on stdin/stdout.
func NewSession() *Session {
	return NewSessionWithIO(os.Stdin, os.Stdout)
}

// NewSessionWithIO creates a session with custom input/output (for testing).
func NewSessionWithIO(in io.Reader, out io.Writer) *Session {
	return &Session{
		out:     out,
		scanner: bufio.NewScanner(in),
		styles:  newStyles(out),
	}
}

// IsTerminal checks if stdin is a terminal (TTY).
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Ask implements Asker.
func (s *Session) Ask(questions []Question) (Answers, error) {
	answers := Answers{}
	for _, q := range questions {
		if q.When != nil && !q.When(answers) {
			continue
		}
		v, err := s.ask(q)
		if err != nil {
			return answers, fmt.Errorf("%s: %w", q.Name, err)
		}
		answers[q.Name] = v
	}
	return answers, nil
}

// Say implements Asker.
func (s *Session) Say(tone Tone, format string, args ...any) {
	style := s.styles.info
	switch tone {
	case ToneSuccess:
		style = s.styles.success
	case ToneWarn:
		style = s.styles.warn
	}
	_, _ = fmt.Fprintln(s.out, style.Render(fmt.Sprintf(format, args...)))
}

func (s *Session) ask(q Question) (any, error) {
	switch q.Type {
	case Confirm:
		return s.askConfirm(q)
	case List:
		return s.askList(q)
	default:
		return s.askInput(q)
	}
}

// readLine reads one trimmed line of input.
func (s *Session) readLine() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(s.scanner.Text()), nil
}

func (s *Session) header(q Question, hint string) {
	_, _ = fmt.Fprint(s.out, s.styles.marker.Render("?"), " ", s.styles.message.Render(q.Message))
	if hint != "" {
		_, _ = fmt.Fprint(s.out, " ", s.styles.hint.Render(hint))
	}
	_, _ = fmt.Fprint(s.out, " ")
}

func (s *Session) reject(msg string) {
	_, _ = fmt.Fprintln(s.out, s.styles.invalid.Render(">> "+msg))
}

func (s *Session) askInput(q Question) (string, error) {
	def, _ := q.Default.(string)
	hint := ""
	if def != "" {
		hint = "(" + def + ")"
	}

	for {
		s.header(q, hint)
		answer, err := s.readLine()
		if err != nil {
			return "", err
		}
		if answer == "" {
			answer = def
		}
		if q.Filter != nil {
			answer = q.Filter(answer)
		}
		if q.Validate != nil {
			if err := q.Validate(answer); err != nil {
				s.reject(err.Error())
				continue
			}
		}
		return answer, nil
	}
}

func (s *Session) askConfirm(q Question) (bool, error) {
	def, _ := q.Default.(bool)
	hint := "(y/N)"
	if def {
		hint = "(Y/n)"
	}

	for {
		s.header(q, hint)
		answer, err := s.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			s.reject("Please answer y or n.")
		}
	}
}

func (s *Session) askList(q Question) (string, error) {
	var selectable []Choice
	for _, c := range q.Choices {
		if !c.IsSeparator() {
			selectable = append(selectable, c)
		}
	}
	if len(selectable) == 0 {
		return "", fmt.Errorf("question %q has no choices", q.Name)
	}
	def, _ := q.Default.(string)

	for {
		s.header(q, "")
		_, _ = fmt.Fprintln(s.out)
		n := 0
		for _, c := range q.Choices {
			if c.IsSeparator() {
				_, _ = fmt.Fprintln(s.out, s.styles.hint.Render("  ──────────────"))
				continue
			}
			n++
			_, _ = fmt.Fprintf(s.out, "  %d) %s\n", n, c.Name)
		}
		_, _ = fmt.Fprintf(s.out, "  Answer [1-%d]: ", len(selectable))

		answer, err := s.readLine()
		if err != nil {
			return "", err
		}
		if answer == "" && def != "" {
			return def, nil
		}
		if num, err := strconv.Atoi(answer); err == nil && num >= 1 && num <= len(selectable) {
			return selectable[num-1].Value, nil
		}
		for _, c := range selectable {
			if strings.EqualFold(answer, c.Value) {
				return c.Value, nil
			}
		}
		s.reject(fmt.Sprintf("Invalid selection %q.", answer))
	}
}
