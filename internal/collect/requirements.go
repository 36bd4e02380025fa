package collect

import (
	"strings"

	"github.com/adamancini/wpstack/internal/composer"
	"github.com/adamancini/wpstack/internal/interactive"
	"github.com/adamancini/wpstack/internal/manifest"
	"github.com/adamancini/wpstack/internal/types"
)

// DefaultVersion is the constraint offered when the operator names none.
const DefaultVersion = "latest"

func dependencyQuestions() []interactive.Question {
	notDone := interactive.WhenNotEquals("type", types.DependencyDone.String())
	source := func(kinds ...types.SourceKind) func(interactive.Answers) bool {
		values := make([]string, len(kinds))
		for i, k := range kinds {
			values[i] = k.String()
		}
		return interactive.WhenEquals("source", values...)
	}

	return []interactive.Question{
		{
			Type:    interactive.List,
			Name:    "type",
			Message: "This dependency is a:",
			Choices: []interactive.Choice{
				{Name: "WP Plugin", Value: types.DependencyPlugin.String()},
				{Name: "WP Theme", Value: types.DependencyTheme.String()},
				{Name: "WP MU Plugin", Value: types.DependencyMUPlugin.String()},
				interactive.Separator(),
				{Name: "No more, I'm done", Value: types.DependencyDone.String()},
			},
		},
		{
			Type:    interactive.List,
			Name:    "source",
			Message: "This dependency is:",
			When:    notDone,
			Choices: []interactive.Choice{
				{Name: "In the .org repository.", Value: types.SourceWPackagist.String()},
				{Name: "Version controlled (git or svn).", Value: types.SourceVCS.String()},
				{Name: "In the packagist repository.", Value: types.SourcePackagist.String()},
				{Name: "In a zip file or tar ball.", Value: types.SourceArchive.String()},
			},
		},
		{
			Name:     "slug",
			Message:  "The .org slug is:",
			When:     source(types.SourceWPackagist),
			Validate: interactive.NotEmpty,
			Filter:   strings.TrimSpace,
		},
		{
			Name:     "url",
			Message:  "The dependency URL is:",
			When:     source(types.SourceVCS, types.SourceArchive),
			Validate: interactive.NotEmpty,
			Filter:   strings.TrimSpace,
		},
		{
			Type:    interactive.Confirm,
			Name:    "hasJSON",
			Message: "The repository contains a composer.json file:",
			When:    source(types.SourceVCS),
		},
		{
			Name:     "name",
			Message:  "The package name is:",
			When:     source(types.SourcePackagist, types.SourceVCS, types.SourceArchive),
			Validate: interactive.NotEmpty,
			Filter:   strings.TrimSpace,
		},
		{
			Name:    "version",
			Message: "The version to install:",
			Default: DefaultVersion,
			When:    notDone,
			Filter:  strings.TrimSpace,
		},
		{
			Type:    interactive.Confirm,
			Name:    "confirmed",
			Message: "Alright, I got it. Is everything correct?",
			When:    notDone,
		},
	}
}

// Requirements runs the dependency flow: one round per dependency until the
// operator picks "done". A declined confirmation discards the round and
// starts over from the dependency kind. Each confirmed dependency is added
// to composer.require, plus a repository descriptor for vcs and archive
// sources.
func Requirements(asker interactive.Asker, m *manifest.Manifest) error {
	return interactive.Loop(asker, dependencyQuestions(), func(a interactive.Answers) (interactive.Next, error) {
		if types.DependencyKind(a.String("type")).IsDone() {
			return interactive.Stop, nil
		}

		if !a.Bool("confirmed") {
			asker.Say(interactive.ToneWarn, "OK, let's try again.")
			return interactive.Continue, nil
		}

		dep, err := dependencyFromAnswers(a)
		if err != nil {
			return interactive.Stop, err
		}
		dep.Apply(m.EnsureComposer())

		asker.Say(interactive.ToneSuccess, "All right, your dependency has been noted!")
		asker.Say(interactive.ToneInfo, "Want to add another?")
		return interactive.Continue, nil
	})
}

func dependencyFromAnswers(a interactive.Answers) (composer.Dependency, error) {
	dep := composer.Dependency{
		Kind:        types.DependencyKind(a.String("type")),
		Source:      types.SourceKind(a.String("source")),
		Slug:        a.String("slug"),
		URL:         a.String("url"),
		HasMetadata: a.Bool("hasJSON"),
		Name:        a.String("name"),
		Version:     a.String("version"),
	}
	if err := dep.Validate(); err != nil {
		return composer.Dependency{}, err
	}
	return dep, nil
}
