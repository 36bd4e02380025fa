package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/adamancini/wpstack/internal/types"
)

// ValidationError represents a manifest validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the manifest for required fields and valid values.
// server.proxies is not validated: malformed captures are normalized away
// rather than rejected.
func Validate(m *Manifest) error {
	var errors []string

	if strings.TrimSpace(m.Server.Local) == "" {
		errors = append(errors, ValidationError{Field: "server.local", Message: "local domain is required"}.Error())
	}

	if m.Composer != nil {
		for _, err := range validateComposer(m.Composer) {
			errors = append(errors, err.Error())
		}
	}

	for i, s := range m.Src {
		if s.Name == "" {
			errors = append(errors, ValidationError{Field: fmt.Sprintf("src[%d].name", i), Message: "name is required"}.Error())
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func validateComposer(c *Composer) []error {
	var errs []error

	names := make([]string, 0, len(c.Require))
	for name := range c.Require {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, ValidationError{Field: "composer.require", Message: "package name cannot be empty"})
			continue
		}
		if c.Require[name] == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("composer.require.%s", name),
				Message: "version constraint is required",
			})
		}
	}

	for i, r := range c.Repositories {
		if err := validateRepository(i, r); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

func validateRepository(index int, r Repository) error {
	field := fmt.Sprintf("composer.repositories[%d]", index)

	repoType := types.RepositoryType(r.Type)
	if err := repoType.Validate(); err != nil {
		return ValidationError{Field: field + ".type", Message: err.Error()}
	}

	switch {
	case repoType.NeedsURL():
		if r.URL == "" {
			return ValidationError{Field: field + ".url", Message: fmt.Sprintf("url is required for %s repositories", repoType)}
		}
	case repoType == types.RepositoryPackage:
		if r.Package == nil || r.Package.Name == "" {
			return ValidationError{Field: field + ".package.name", Message: "package name is required for package repositories"}
		}
		if r.Package.Source == nil && r.Package.Dist == nil {
			return ValidationError{Field: field + ".package", Message: "package needs a source or a dist"}
		}
	}

	return nil
}
