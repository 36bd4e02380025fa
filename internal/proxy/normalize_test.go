package proxy

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

const defaultMatch = `\.(js|css|png|jpg|jpeg|gif|ico|mp3|mov|tif|tiff|swf|txt|html)$`

func TestParseKinds(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Kind
	}{
		{"nil", nil, KindDisabled},
		{"false", false, KindDisabled},
		{"empty string", "", KindDisabled},
		{"zero", 0, KindDisabled},
		{"url", "https://a.test", KindShorthand},
		{"true coerces to object", true, KindObject},
		{"number coerces to object", 42, KindObject},
		{"map", map[string]any{"match": `\.json$`}, KindObject},
		{"spec", Spec{}, KindObject},
		{"capture", Capture{}, KindObject},
		{"nil spec pointer", (*Spec)(nil), KindDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.input).Kind; got != tt.want {
				t.Errorf("Parse(%v).Kind = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDisabled(t *testing.T) {
	for _, fallback := range []string{"", "https://f.test"} {
		for _, input := range []any{false, nil, ""} {
			if c, ok := NormalizeValue(input, fallback); ok {
				t.Errorf("NormalizeValue(%v, %q) = %+v, want disabled", input, fallback, c)
			}
		}
	}
}

func TestNormalizeShorthandEqualsObject(t *testing.T) {
	for _, fallback := range []string{"", "https://f.test"} {
		short, okShort := NormalizeValue("https://a.test", fallback)
		obj, okObj := NormalizeValue(map[string]any{"proxies": []any{"https://a.test"}}, fallback)
		if okShort != okObj {
			t.Fatalf("enabled mismatch: shorthand %v, object %v", okShort, okObj)
		}
		if diff := cmp.Diff(obj, short); diff != "" {
			t.Errorf("shorthand differs from object form (-object +shorthand):\n%s", diff)
		}
	}
}

func TestNormalizeDefaultMatch(t *testing.T) {
	c, ok := NormalizeValue(map[string]any{}, "https://f.test")
	if !ok {
		t.Fatal("expected enabled capture")
	}
	if c.Match != defaultMatch {
		t.Errorf("Match = %q, want %q", c.Match, defaultMatch)
	}
	want := []Location{{URL: "https://f.test"}}
	if diff := cmp.Diff(want, c.Proxies); diff != "" {
		t.Errorf("Proxies mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeTypeModifiers(t *testing.T) {
	orders := []map[string]any{
		{"types-include": []any{"woff"}, "types-exclude": []any{"gif"}},
		{"types-exclude": []any{"gif"}, "types-include": []any{"woff"}},
	}

	var matches []string
	for _, raw := range orders {
		raw["proxies"] = []any{"https://a.test"}
		c, ok := NormalizeValue(raw, "")
		if !ok {
			t.Fatal("expected enabled capture")
		}
		if !strings.Contains(c.Match, "woff") {
			t.Errorf("Match %q should contain woff", c.Match)
		}
		if strings.Contains(c.Match, "gif") {
			t.Errorf("Match %q should not contain gif", c.Match)
		}
		matches = append(matches, c.Match)
	}
	if matches[0] != matches[1] {
		t.Errorf("modifier order changed the match: %q vs %q", matches[0], matches[1])
	}
}

func TestNormalizeTypesReplaceDefaults(t *testing.T) {
	c, ok := NormalizeValue(Spec{Proxies: []any{"https://a.test"}, Types: []string{"json", " .xml "}, TypesInclude: []string{"woff"}}, "")
	if !ok {
		t.Fatal("expected enabled capture")
	}
	if want := `\.(json|xml)$`; c.Match != want {
		t.Errorf("Match = %q, want %q", c.Match, want)
	}
}

func TestNormalizeExplicitMatchWins(t *testing.T) {
	raw := map[string]any{
		"proxies":       []any{"https://a.test"},
		"match":         `\.json$`,
		"types":         []any{"css"},
		"types-include": []any{"woff"},
		"types-exclude": []any{"js"},
	}
	c, ok := NormalizeValue(raw, "")
	if !ok {
		t.Fatal("expected enabled capture")
	}
	if c.Match != `\.json$` {
		t.Errorf("Match = %q, want explicit pattern", c.Match)
	}
}

func TestNormalizeLocations(t *testing.T) {
	raw := map[string]any{
		"proxies": []any{
			"https://a.test",
			map[string]any{"url": "https://b.test", "rewrite": "/wp-content(.*) $1"},
			map[string]any{"rewrite": 7},
			42,
			nil,
		},
	}

	c, ok := NormalizeValue(raw, "https://f.test")
	if !ok {
		t.Fatal("expected enabled capture")
	}
	want := []Location{
		{URL: "https://a.test"},
		{URL: "https://b.test", Rewrite: "/wp-content(.*) $1"},
		{URL: "https://f.test"},
	}
	if diff := cmp.Diff(want, c.Proxies); diff != "" {
		t.Errorf("Proxies mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeEmptyLocationsDisable(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"no proxies and no fallback", map[string]any{}},
		{"only invalid entries", map[string]any{"proxies": []any{1, true}}},
		{"object without url and no fallback", map[string]any{"proxies": []any{map[string]any{"rewrite": "x"}}}},
		{"proxies not a list", map[string]any{"proxies": "https://a.test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if c, ok := NormalizeValue(tt.raw, ""); ok {
				t.Errorf("expected disabled, got %+v", c)
			}
		})
	}
}

func TestNormalizeEverythingExcludedDisables(t *testing.T) {
	exclude := make([]any, len(DefaultTypes))
	for i, ty := range DefaultTypes {
		exclude[i] = ty
	}
	if _, ok := NormalizeValue(map[string]any{"proxies": []any{"https://a.test"}, "types-exclude": exclude}, ""); ok {
		t.Error("expected disabled capture when every type is excluded")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []any{
		"https://a.test",
		map[string]any{},
		map[string]any{"proxies": []any{map[string]any{"url": "https://b.test", "rewrite": "^/(.*) /$1"}}, "types-include": []any{"woff"}},
		map[string]any{"proxies": []any{"https://c.test", "https://d.test"}, "match": `\.json$`},
	}

	for _, input := range inputs {
		first, ok := NormalizeValue(input, "https://f.test")
		if !ok {
			t.Fatalf("expected enabled capture for %v", input)
		}
		second, ok := NormalizeValue(first, "https://other.test")
		if !ok {
			t.Fatal("re-normalizing a canonical capture disabled it")
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("not idempotent (-first +second):\n%s", diff)
		}
	}
}

func TestNormalizeIdempotentThroughYAML(t *testing.T) {
	first, ok := NormalizeValue(map[string]any{"proxies": []any{"https://a.test", Location{URL: "https://b.test", Rewrite: "x"}}}, "")
	if !ok {
		t.Fatal("expected enabled capture")
	}

	data, err := yaml.Marshal(first)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), "rewrite: false") {
		t.Errorf("expected rewrite: false in YAML, got:\n%s", data)
	}

	var decoded any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	second, ok := NormalizeValue(decoded, "")
	if !ok {
		t.Fatal("decoded capture disabled")
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("YAML round trip changed capture (-want +got):\n%s", diff)
	}
}

func TestLocationMarshalJSON(t *testing.T) {
	data, err := json.Marshal([]Location{{URL: "https://a.test"}, {URL: "https://b.test", Rewrite: "r"}})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	want := `[{"url":"https://a.test","rewrite":false},{"url":"https://b.test","rewrite":"r"}]`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestNormalizeAll(t *testing.T) {
	proxies := map[string]any{
		"uploads": map[string]any{"types-include": []any{"pdf"}},
		"off":     false,
		"cdn":     "https://cdn.test",
	}

	set := NormalizeAll(proxies, "example.com")

	if diff := cmp.Diff([]string{"cdn", "uploads"}, set.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if got := set["uploads"].Proxies[0].URL; got != "https://example.com" {
		t.Errorf("fallback URL = %q, want https://example.com", got)
	}
}

func TestFallbackURL(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"", ""},
		{"example.com", "https://example.com"},
		{"http://example.com", "http://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			if got := FallbackURL(tt.remote); got != tt.want {
				t.Errorf("FallbackURL(%q) = %q, want %q", tt.remote, got, tt.want)
			}
		})
	}
}
