package interactive

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestAskInput(t *testing.T) {
	input := strings.NewReader("  hello  \n")
	output := &bytes.Buffer{}
	s := NewSessionWithIO(input, output)

	answers, err := s.Ask([]Question{{Name: "greeting", Message: "Say something:"}})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got := answers.String("greeting"); got != "hello" {
		t.Errorf("greeting = %q, want %q", got, "hello")
	}
	if !strings.Contains(output.String(), "Say something:") {
		t.Error("expected question message in output")
	}
}

func TestAskInputDefault(t *testing.T) {
	input := strings.NewReader("\n")
	output := &bytes.Buffer{}
	s := NewSessionWithIO(input, output)

	answers, err := s.Ask([]Question{{Name: "version", Message: "Version:", Default: "latest"}})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got := answers.String("version"); got != "latest" {
		t.Errorf("version = %q, want latest", got)
	}
	if !strings.Contains(output.String(), "(latest)") {
		t.Error("expected default hint in output")
	}
}

func TestAskInputValidateReasks(t *testing.T) {
	input := strings.NewReader("\n   \nnamed\n")
	output := &bytes.Buffer{}
	s := NewSessionWithIO(input, output)

	answers, err := s.Ask([]Question{{Name: "name", Message: "Name:", Validate: NotEmpty}})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got := answers.String("name"); got != "named" {
		t.Errorf("name = %q, want named", got)
	}
	if n := strings.Count(output.String(), "Name:"); n != 3 {
		t.Errorf("question asked %d times, want 3", n)
	}
	if !strings.Contains(output.String(), ErrEmpty.Error()) {
		t.Error("expected validation message in output")
	}
}

func TestAskInputFilter(t *testing.T) {
	input := strings.NewReader("ABC\n")
	s := NewSessionWithIO(input, &bytes.Buffer{})

	answers, err := s.Ask([]Question{{Name: "x", Message: "X:", Filter: strings.ToLower}})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got := answers.String("x"); got != "abc" {
		t.Errorf("x = %q, want abc", got)
	}
}

func TestAskConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   any
		want  bool
	}{
		{"yes", "y\n", nil, true},
		{"YES", "YES\n", nil, true},
		{"no", "n\n", true, false},
		{"empty uses false default", "\n", nil, false},
		{"empty uses true default", "\n", true, true},
		{"invalid then yes", "maybe\nyes\n", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSessionWithIO(strings.NewReader(tt.input), &bytes.Buffer{})
			answers, err := s.Ask([]Question{{Type: Confirm, Name: "ok", Message: "OK?", Default: tt.def}})
			if err != nil {
				t.Fatalf("Ask() error = %v", err)
			}
			if got := answers.Bool("ok"); got != tt.want {
				t.Errorf("ok = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAskList(t *testing.T) {
	q := Question{
		Type:    List,
		Name:    "kind",
		Message: "Pick one:",
		Choices: []Choice{
			{Name: "First", Value: "first"},
			Separator(),
			{Name: "Second", Value: "second"},
		},
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"by number skips separator", "2\n", "second"},
		{"by value", "FIRST\n", "first"},
		{"invalid then valid", "9\nnope\n1\n", "first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := &bytes.Buffer{}
			s := NewSessionWithIO(strings.NewReader(tt.input), output)
			answers, err := s.Ask([]Question{q})
			if err != nil {
				t.Fatalf("Ask() error = %v", err)
			}
			if got := answers.String("kind"); got != tt.want {
				t.Errorf("kind = %q, want %q", got, tt.want)
			}
			if !strings.Contains(output.String(), "2) Second") {
				t.Error("expected numbered choices in output")
			}
		})
	}
}

func TestAskWhen(t *testing.T) {
	questions := []Question{
		{Type: Confirm, Name: "add", Message: "Add?"},
		{Name: "name", Message: "Name:", When: WhenTrue("add")},
	}

	s := NewSessionWithIO(strings.NewReader("n\n"), &bytes.Buffer{})
	answers, err := s.Ask(questions)
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if answers.Has("name") {
		t.Error("name should be skipped when add is false")
	}

	s = NewSessionWithIO(strings.NewReader("y\nfoo\n"), &bytes.Buffer{})
	answers, err = s.Ask(questions)
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got := answers.String("name"); got != "foo" {
		t.Errorf("name = %q, want foo", got)
	}
}

func TestWhenEquals(t *testing.T) {
	when := WhenEquals("source", "vcs", "ziptar")
	if !when(Answers{"source": "ziptar"}) {
		t.Error("expected match for ziptar")
	}
	if when(Answers{"source": "packagist"}) {
		t.Error("expected no match for packagist")
	}
	if when(Answers{}) {
		t.Error("expected no match for missing answer")
	}
	if !WhenNotEquals("type", "done")(Answers{"type": "plugin"}) {
		t.Error("expected WhenNotEquals to match plugin")
	}
}

func TestAskEOF(t *testing.T) {
	s := NewSessionWithIO(strings.NewReader(""), &bytes.Buffer{})

	_, err := s.Ask([]Question{{Name: "name", Message: "Name:"}})
	if !errors.Is(err, ErrInputClosed) {
		t.Errorf("expected ErrInputClosed, got %v", err)
	}
}

func TestSay(t *testing.T) {
	output := &bytes.Buffer{}
	s := NewSessionWithIO(strings.NewReader(""), output)

	s.Say(ToneWarn, "OK, let's try %s.", "again")

	if !strings.Contains(output.String(), "OK, let's try again.") {
		t.Errorf("unexpected output %q", output.String())
	}
}
