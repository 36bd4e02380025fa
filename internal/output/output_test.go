package output

import (
	"bytes"
	"strings"
	"testing"
)

type named struct {
	Name string `json:"name" yaml:"name"`
}

func (n named) String() string { return "name=" + n.Name }

func TestWriter(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "name=akismet\n"},
		{FormatJSON, "{\n  \"name\": \"akismet\"\n}\n"},
		{FormatYAML, "name: akismet\n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewWriter(&buf, tt.format).Write(named{Name: "akismet"}); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Write() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestJSONKeepsHTMLCharacters(t *testing.T) {
	out, err := JSON(map[string]string{"test": `echo "x" && exit 1`})
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if !strings.Contains(string(out), "&&") {
		t.Errorf("JSON() escaped HTML characters: %s", out)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v", tt.in, got, err)
		}
	}
}
