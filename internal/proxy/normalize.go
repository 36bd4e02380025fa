package proxy

import (
	"encoding/json"
	"sort"
	"strings"
)

// DefaultTypes are the file extensions a capture matches when it names none.
var DefaultTypes = []string{
	"js", "css", "png", "jpg", "jpeg", "gif", "ico",
	"mp3", "mov", "tif", "tiff", "swf", "txt", "html",
}

// Location is one upstream a capture forwards to. An empty Rewrite means no
// rewrite and is serialized as false.
type Location struct {
	URL     string `yaml:"url" toml:"url" json:"url"`
	Rewrite string `yaml:"rewrite,omitempty" toml:"rewrite,omitempty" json:"rewrite,omitempty"`
}

type locationDoc struct {
	URL     string `yaml:"url" json:"url"`
	Rewrite any    `yaml:"rewrite" json:"rewrite"`
}

func (l Location) doc() locationDoc {
	d := locationDoc{URL: l.URL, Rewrite: false}
	if l.Rewrite != "" {
		d.Rewrite = l.Rewrite
	}
	return d
}

// MarshalJSON renders the location as {"url": ..., "rewrite": string|false}.
func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.doc())
}

// MarshalYAML renders the location as {url, rewrite: string|false}.
func (l Location) MarshalYAML() (any, error) {
	return l.doc(), nil
}

// Capture is the canonical form of a capture: at least one location and
// exactly one match pattern.
type Capture struct {
	Proxies []Location `yaml:"proxies" json:"proxies"`
	Match   string     `yaml:"match" json:"match"`
}

// Spec returns the capture in object form. Feeding it back through
// Normalize yields the same Capture.
func (c Capture) Spec() Spec {
	proxies := make([]any, len(c.Proxies))
	for i, l := range c.Proxies {
		proxies[i] = l
	}
	return Spec{Proxies: proxies, Match: c.Match}
}

// Normalize turns a raw capture into its canonical form. The boolean is
// false when the capture is disabled: it was authored as disabled, none of
// its locations resolve to a URL, or its effective type list is empty.
// fallbackURL stands in for missing location URLs; "" means no fallback.
func Normalize(raw Raw, fallbackURL string) (Capture, bool) {
	var spec Spec
	switch raw.Kind {
	case KindShorthand:
		spec = Spec{Proxies: []any{raw.URL}}
	case KindObject:
		spec = raw.Spec
	default:
		return Capture{}, false
	}

	entries := spec.Proxies
	if len(entries) == 0 {
		entries = []any{fallbackURL}
	}

	var locations []Location
	for _, entry := range entries {
		if l, ok := normalizeLocation(entry, fallbackURL); ok {
			locations = append(locations, l)
		}
	}
	if len(locations) == 0 {
		return Capture{}, false
	}

	match := spec.Match
	if match == "" {
		types := effectiveTypes(spec)
		if len(types) == 0 {
			return Capture{}, false
		}
		match = MatchTypes(types)
	}

	return Capture{Proxies: locations, Match: match}, true
}

// NormalizeValue is Normalize(Parse(v), fallbackURL).
func NormalizeValue(v any, fallbackURL string) (Capture, bool) {
	return Normalize(Parse(v), fallbackURL)
}

// MatchTypes builds the nginx location pattern for a list of extensions.
func MatchTypes(types []string) string {
	return `\.(` + strings.Join(types, "|") + `)$`
}

func normalizeLocation(entry any, fallbackURL string) (Location, bool) {
	var l Location
	switch val := entry.(type) {
	case string:
		l = Location{URL: val}
	case Location:
		l = val
		if l.URL == "" {
			l.URL = fallbackURL
		}
	case *Location:
		if val == nil {
			return Location{}, false
		}
		l = *val
		if l.URL == "" {
			l.URL = fallbackURL
		}
	case map[string]any:
		l.URL = fallbackURL
		if url, ok := val["url"].(string); ok {
			l.URL = url
		}
		if rewrite, ok := val["rewrite"].(string); ok {
			l.Rewrite = rewrite
		}
	case map[any]any:
		l.URL = fallbackURL
		if url, ok := val["url"].(string); ok {
			l.URL = url
		}
		if rewrite, ok := val["rewrite"].(string); ok {
			l.Rewrite = rewrite
		}
	default:
		return Location{}, false
	}
	if l.URL == "" {
		return Location{}, false
	}
	return l, true
}

// effectiveTypes resolves the extension list of a capture without a match.
// A non-empty types list replaces the defaults; otherwise types-include is
// merged into the defaults and types-exclude removed from the result.
func effectiveTypes(spec Spec) []string {
	if types := cleanTypes(spec.Types); len(types) > 0 {
		return uniq(types)
	}

	types := uniq(append(append([]string{}, DefaultTypes...), cleanTypes(spec.TypesInclude)...))

	exclude := make(map[string]bool)
	for _, t := range cleanTypes(spec.TypesExclude) {
		exclude[t] = true
	}
	out := types[:0]
	for _, t := range types {
		if !exclude[t] {
			out = append(out, t)
		}
	}
	return out
}

// cleanTypes trims whitespace and leading dots and drops empty entries.
func cleanTypes(types []string) []string {
	var out []string
	for _, t := range types {
		t = strings.TrimPrefix(strings.TrimSpace(t), ".")
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func uniq(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// Set maps capture names to canonical captures.
type Set map[string]Capture

// Names returns the capture names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FallbackURL turns the manifest's server.remote host into the URL used for
// locations that name none. An empty remote yields no fallback.
func FallbackURL(remote string) string {
	if remote == "" {
		return ""
	}
	if strings.Contains(remote, "://") {
		return remote
	}
	return "https://" + remote
}

// NormalizeAll normalizes every capture of a server.proxies mapping against
// the fallback derived from remote. Disabled captures are left out.
func NormalizeAll(proxies map[string]any, remote string) Set {
	fallback := FallbackURL(remote)
	set := make(Set, len(proxies))
	for name, raw := range proxies {
		if c, ok := NormalizeValue(raw, fallback); ok {
			set[name] = c
		}
	}
	return set
}
