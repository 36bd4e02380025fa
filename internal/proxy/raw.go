// Package proxy normalizes the static file proxy captures of a manifest.
//
// A capture may be authored as false (disabled), as a single URL string, or
// as an object with proxies, match and types fields. Parse decides once which
// of those shapes a value has; Normalize turns the result into the canonical
// Capture that the nginx templates consume.
package proxy

// Kind tags which shape a raw capture was authored in.
type Kind int

const (
	KindDisabled  Kind = iota // false, nil, empty string or zero
	KindShorthand             // a single URL string
	KindObject                // a full object (possibly empty)
)

func (k Kind) String() string {
	switch k {
	case KindDisabled:
		return "disabled"
	case KindShorthand:
		return "shorthand"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Spec is the object form of a capture as it appears in a manifest.
// Proxies holds URL strings, Locations or {url, rewrite} maps.
type Spec struct {
	Proxies      []any    `yaml:"proxies,omitempty" toml:"proxies,omitempty" json:"proxies,omitempty"`
	Match        string   `yaml:"match,omitempty" toml:"match,omitempty" json:"match,omitempty"`
	Types        []string `yaml:"types,omitempty" toml:"types,omitempty" json:"types,omitempty"`
	TypesInclude []string `yaml:"types-include,omitempty" toml:"types-include,omitempty" json:"types-include,omitempty"`
	TypesExclude []string `yaml:"types-exclude,omitempty" toml:"types-exclude,omitempty" json:"types-exclude,omitempty"`
}

// Raw is a capture definition after its shape has been decided.
type Raw struct {
	Kind Kind
	URL  string // set for KindShorthand
	Spec Spec   // set for KindObject
}

// Disabled returns the raw form of a switched-off capture.
func Disabled() Raw { return Raw{Kind: KindDisabled} }

// Shorthand returns the raw form of a single-URL capture.
func Shorthand(url string) Raw { return Raw{Kind: KindShorthand, URL: url} }

// Object returns the raw form of a full capture object.
func Object(spec Spec) Raw { return Raw{Kind: KindObject, Spec: spec} }

// Parse classifies an arbitrary decoded manifest value. It never fails:
// falsy values disable the capture, strings are shorthand, maps and Specs
// are objects, and anything else becomes an empty object.
func Parse(v any) Raw {
	switch val := v.(type) {
	case nil:
		return Disabled()
	case bool:
		if !val {
			return Disabled()
		}
	case string:
		if val == "" {
			return Disabled()
		}
		return Shorthand(val)
	case int:
		if val == 0 {
			return Disabled()
		}
	case int64:
		if val == 0 {
			return Disabled()
		}
	case float64:
		if val == 0 {
			return Disabled()
		}
	case Raw:
		return val
	case Spec:
		return Object(val)
	case *Spec:
		if val == nil {
			return Disabled()
		}
		return Object(*val)
	case Capture:
		return Object(val.Spec())
	case *Capture:
		if val == nil {
			return Disabled()
		}
		return Object(val.Spec())
	case map[string]any:
		return Object(specFromMap(val))
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			if ks, ok := k.(string); ok {
				m[ks] = v
			}
		}
		return Object(specFromMap(m))
	}
	return Object(Spec{})
}

func specFromMap(m map[string]any) Spec {
	var spec Spec

	if p, ok := sequence(m["proxies"]); ok {
		spec.Proxies = p
	}
	if match, ok := m["match"].(string); ok {
		spec.Match = match
	}
	spec.Types = stringList(m["types"])
	spec.TypesInclude = stringList(m["types-include"])
	spec.TypesExclude = stringList(m["types-exclude"])

	return spec
}

// sequence reports whether v is a list and returns its elements.
func sequence(v any) ([]any, bool) {
	switch val := v.(type) {
	case []any:
		return val, true
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, true
	case []Location:
		out := make([]any, len(val))
		for i, l := range val {
			out[i] = l
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(val))
		for i, l := range val {
			out[i] = l
		}
		return out, true
	}
	return nil, false
}

// stringList extracts the string elements of a list, ignoring everything else.
func stringList(v any) []string {
	items, ok := sequence(v)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
