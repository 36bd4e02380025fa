// Package templates provides the embedded starter manifests for wpstack init
// and the text templates the dump targets render.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
)

//go:embed *.yaml
var startersFS embed.FS

const starterSuffix = ".yaml"

// Template is a starter manifest.
type Template struct {
	Name        string
	Description string
	Content     []byte
}

var starterDescriptions = map[string]string{
	"minimal": "Local domain, database name and one plugin",
	"full":    "Every manifest section including proxies and src",
}

// List returns the starter names in alphabetical order.
func List() []string {
	matches, err := fs.Glob(startersFS, "*"+starterSuffix)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(m, starterSuffix))
	}
	sort.Strings(names)
	return names
}

// Get returns a starter with its ${VAR} references left in place. Callers
// expand them with manifest.ExpandEnv.
func Get(name string) (*Template, error) {
	content, err := startersFS.ReadFile(name + starterSuffix)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("template '%s' not found (available: %s)", name, strings.Join(List(), ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template '%s': %w", name, err)
	}
	return &Template{Name: name, Description: GetDescription(name), Content: content}, nil
}

// GetDescription returns the one-line summary shown by init.
func GetDescription(name string) string {
	if desc, ok := starterDescriptions[name]; ok {
		return desc
	}
	return "Custom template"
}

var varRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)`)

// Variables lists the environment variables a starter reads, sorted.
func (t *Template) Variables() []string {
	seen := map[string]bool{}
	var vars []string
	for _, m := range varRef.FindAllSubmatch(t.Content, -1) {
		if name := string(m[1]); !seen[name] {
			seen[name] = true
			vars = append(vars, name)
		}
	}
	sort.Strings(vars)
	return vars
}
