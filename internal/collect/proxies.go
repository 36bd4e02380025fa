// Package collect runs the interactive flows that author parts of a manifest:
// static proxy captures and composer dependencies.
package collect

import (
	"errors"
	"regexp"
	"strings"

	"github.com/adamancini/wpstack/internal/interactive"
	"github.com/adamancini/wpstack/internal/manifest"
	"github.com/adamancini/wpstack/internal/proxy"
	"github.com/adamancini/wpstack/internal/types"
)

// ErrCaptureName is returned for capture names nginx cannot use in a named
// location.
var ErrCaptureName = errors.New("use only letters, digits, '-' and '_'")

var captureName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// validCaptureName accepts non-empty names made of [A-Za-z0-9_-].
func validCaptureName(s string) error {
	if err := interactive.NotEmpty(s); err != nil {
		return err
	}
	if !captureName.MatchString(s) {
		return ErrCaptureName
	}
	return nil
}

func captureQuestions() []interactive.Question {
	adding := interactive.WhenTrue("add")
	return []interactive.Question{
		{
			Type:    interactive.Confirm,
			Name:    "add",
			Message: "Add a static proxy capture:",
		},
		{
			Name:     "name",
			Message:  "This proxy capture is named:",
			When:     adding,
			Validate: validCaptureName,
			Filter:   strings.TrimSpace,
		},
		{
			Type: interactive.List,
			Name: "type",
			Message: "This proxy capture is for:\n" +
				"(defaults: " + strings.Join(proxy.DefaultTypes, ", ") + ")",
			When: adding,
			Choices: []interactive.Choice{
				{Name: "The default static files list.", Value: types.CaptureKindDefault.String()},
				{Name: "A subset or superset of the default static files list.", Value: types.CaptureKindSubset.String()},
				{Name: "A custom set of file types.", Value: types.CaptureKindCustomTypes.String()},
				{Name: "A custom file capture.", Value: types.CaptureKindCustom.String()},
			},
		},
		{
			Name:    "filesInclude",
			Message: "Types to add to the default list (comma separated):",
			When:    interactive.WhenEquals("type", types.CaptureKindSubset.String()),
		},
		{
			Name:    "filesExclude",
			Message: "Types to remove from the default list (comma separated):",
			When:    interactive.WhenEquals("type", types.CaptureKindSubset.String()),
		},
		{
			Name:     "files",
			Message:  "File types to match (comma separated):",
			When:     interactive.WhenEquals("type", types.CaptureKindCustomTypes.String()),
			Validate: interactive.NotEmpty,
		},
		{
			Name:     "match",
			Message:  "Custom file capture regular expression:",
			When:     interactive.WhenEquals("type", types.CaptureKindCustom.String()),
			Validate: interactive.NotEmpty,
		},
	}
}

func locationQuestions() []interactive.Question {
	adding := interactive.WhenTrue("add")
	return []interactive.Question{
		{
			Type:    interactive.Confirm,
			Name:    "add",
			Message: "Add a proxy location to this capture:",
		},
		{
			Name:     "url",
			Message:  "Proxy files to (URL, no trailing slash):",
			When:     adding,
			Validate: interactive.NotEmpty,
			Filter:   strings.TrimSpace,
		},
		{
			Name:    "rewrite",
			Message: "Proxy path rewrite (blank for none)\n(ex. /wp-content(.*) $1):",
			When:    adding,
		},
	}
}

// Proxies runs the proxy capture flow: one round per named capture, each
// with a nested round per location. A capture is written to server.proxies
// once its location rounds end; an existing capture of the same name is
// replaced.
func Proxies(asker interactive.Asker, m *manifest.Manifest) error {
	return interactive.Loop(asker, captureQuestions(), func(a interactive.Answers) (interactive.Next, error) {
		if !a.Bool("add") {
			return interactive.Stop, nil
		}

		spec := captureSpec(a)
		err := interactive.Loop(asker, locationQuestions(), func(l interactive.Answers) (interactive.Next, error) {
			if !l.Bool("add") {
				return interactive.Stop, nil
			}
			spec.Proxies = append(spec.Proxies, location(l))
			return interactive.Continue, nil
		})
		if err != nil {
			return interactive.Stop, err
		}

		m.SetProxy(a.String("name"), spec)
		return interactive.Continue, nil
	})
}

// captureSpec builds the in-progress capture from the capture answers.
func captureSpec(a interactive.Answers) proxy.Spec {
	spec := proxy.Spec{Proxies: []any{}}

	kind, err := types.ParseCaptureKind(a.String("type"))
	if err != nil {
		kind = types.CaptureKindDefault
	}

	switch kind {
	case types.CaptureKindCustom:
		spec.Match = a.String("match")
	case types.CaptureKindCustomTypes:
		spec.Types = splitList(a.String("files"))
	case types.CaptureKindSubset:
		spec.TypesInclude = splitList(a.String("filesInclude"))
		spec.TypesExclude = splitList(a.String("filesExclude"))
	}
	return spec
}

// location returns a bare URL when no rewrite was given.
func location(a interactive.Answers) any {
	url := a.String("url")
	if rewrite := strings.TrimSpace(a.String("rewrite")); rewrite != "" {
		return proxy.Location{URL: url, Rewrite: rewrite}
	}
	return url
}

// splitList splits a comma separated answer, dropping blank items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
