package interactive

import (
	"errors"
	"strings"
)

// QuestionType selects how a question is presented and answered.
type QuestionType int

const (
	Input   QuestionType = iota // free text
	Confirm                     // yes/no
	List                        // pick one choice
)

// Choice is one selectable entry of a List question.
type Choice struct {
	Name  string
	Value string

	separator bool
}

// Separator returns a divider line between choices. It cannot be selected.
func Separator() Choice {
	return Choice{separator: true}
}

// IsSeparator reports whether the choice is a divider.
func (c Choice) IsSeparator() bool {
	return c.separator
}

// Question is one step of a question sequence.
type Question struct {
	Type    QuestionType
	Name    string
	Message string
	// Default is a string for Input and List questions and a bool for Confirm.
	Default any
	Choices []Choice
	// When skips the question unless it returns true for the answers so far.
	When func(Answers) bool
	// Validate rejects an Input answer; the question is asked again.
	Validate func(string) error
	// Filter rewrites an Input answer before validation.
	Filter func(string) string
}

// Answers holds the answers of one pass through a question sequence, keyed
// by question name. Skipped questions are absent.
type Answers map[string]any

// String returns a text answer, or "" if absent.
func (a Answers) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Bool returns a confirm answer, or false if absent.
func (a Answers) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// Has reports whether the question was asked.
func (a Answers) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// WhenEquals asks a question only if an earlier text answer is one of values.
func WhenEquals(name string, values ...string) func(Answers) bool {
	return func(a Answers) bool {
		got, ok := a[name].(string)
		if !ok {
			return false
		}
		for _, v := range values {
			if got == v {
				return true
			}
		}
		return false
	}
}

// WhenNotEquals asks a question only if an earlier text answer differs from value.
func WhenNotEquals(name, value string) func(Answers) bool {
	return func(a Answers) bool {
		return a.String(name) != value
	}
}

// WhenTrue asks a question only if an earlier confirm answer was yes.
func WhenTrue(name string) func(Answers) bool {
	return func(a Answers) bool {
		return a.Bool(name)
	}
}

// ErrEmpty is returned by NotEmpty.
var ErrEmpty = errors.New("a value is required")

// NotEmpty rejects blank answers.
func NotEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmpty
	}
	return nil
}
