// Package types provides type-safe constants for the wpstack manifest and
// the interactive collection flows.
//
// This package centralizes the enumerated answers the question sequences
// offer, replacing magic strings with typed constants that provide
// validation methods.
//
// SYNC REQUIREMENT: These values are written into manifests and composer
// files, so they must stay in sync with:
//   - internal/collect (question choices)
//   - internal/composer (requirement keys and package types)
package types

import (
	"fmt"
	"strings"
)

// CaptureKind selects how a proxy capture decides which requests it matches.
type CaptureKind string

const (
	// CaptureKindDefault matches the default static file extensions.
	CaptureKindDefault CaptureKind = "default"
	// CaptureKindSubset adds to or removes from the default extensions.
	CaptureKindSubset CaptureKind = "subset"
	// CaptureKindCustomTypes replaces the default extensions.
	CaptureKindCustomTypes CaptureKind = "customTypes"
	// CaptureKindCustom uses a raw regular expression.
	CaptureKindCustom CaptureKind = "custom"
)

// AllCaptureKinds returns all valid capture kinds.
func AllCaptureKinds() []CaptureKind {
	return []CaptureKind{CaptureKindDefault, CaptureKindSubset, CaptureKindCustomTypes, CaptureKindCustom}
}

// Validate checks if the CaptureKind is a valid value.
func (k CaptureKind) Validate() error {
	switch k {
	case CaptureKindDefault, CaptureKindSubset, CaptureKindCustomTypes, CaptureKindCustom:
		return nil
	case "":
		return fmt.Errorf("capture kind is required")
	default:
		return fmt.Errorf("invalid capture kind '%s' (must be default, subset, customTypes, or custom)", k)
	}
}

// String returns the string representation of the CaptureKind.
func (k CaptureKind) String() string {
	return string(k)
}

// ParseCaptureKind parses a string into a CaptureKind, ignoring case.
func ParseCaptureKind(s string) (CaptureKind, error) {
	for _, k := range AllCaptureKinds() {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", CaptureKind(s).Validate()
}

// DependencyKind is what a collected dependency installs as.
type DependencyKind string

const (
	// DependencyPlugin is a WordPress plugin.
	DependencyPlugin DependencyKind = "plugin"
	// DependencyTheme is a WordPress theme.
	DependencyTheme DependencyKind = "theme"
	// DependencyMUPlugin is a must-use plugin.
	DependencyMUPlugin DependencyKind = "muplugin"
	// DependencyDone is the sentinel answer ending the dependency loop.
	DependencyDone DependencyKind = "done"
)

// AllDependencyKinds returns the installable dependency kinds (the sentinel is excluded).
func AllDependencyKinds() []DependencyKind {
	return []DependencyKind{DependencyPlugin, DependencyTheme, DependencyMUPlugin}
}

// Validate checks if the DependencyKind is an installable kind.
func (k DependencyKind) Validate() error {
	switch k {
	case DependencyPlugin, DependencyTheme, DependencyMUPlugin:
		return nil
	case "":
		return fmt.Errorf("dependency kind is required")
	case DependencyDone:
		return fmt.Errorf("'%s' is not an installable dependency kind", k)
	default:
		return fmt.Errorf("invalid dependency kind '%s' (must be plugin, theme, or muplugin)", k)
	}
}

// String returns the string representation of the DependencyKind.
func (k DependencyKind) String() string {
	return string(k)
}

// IsDone returns true for the loop-ending sentinel.
func (k DependencyKind) IsDone() bool {
	return k == DependencyDone
}

// PackageType returns the composer/installers package type, e.g. "wordpress-plugin".
func (k DependencyKind) PackageType() string {
	return "wordpress-" + string(k)
}

// ParseDependencyKind parses a string into an installable DependencyKind.
// "mu-plugin" is accepted as an alias for muplugin.
func ParseDependencyKind(s string) (DependencyKind, error) {
	s = strings.ToLower(s)
	if s == "mu-plugin" {
		s = string(DependencyMUPlugin)
	}
	k := DependencyKind(s)
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

// SourceKind is where a dependency is fetched from.
type SourceKind string

const (
	// SourceWPackagist is the wordpress.org plugin/theme directory, mirrored by wpackagist.
	SourceWPackagist SourceKind = "wpackagist"
	// SourceVCS is a git or svn repository.
	SourceVCS SourceKind = "vcs"
	// SourcePackagist is the packagist.org registry.
	SourcePackagist SourceKind = "packagist"
	// SourceArchive is a zip file or tarball.
	SourceArchive SourceKind = "ziptar"
)

// WPackagistPrefix prefixes requirement keys for wordpress.org sources.
const WPackagistPrefix = "wpackagist"

// AllSourceKinds returns all valid source kinds.
func AllSourceKinds() []SourceKind {
	return []SourceKind{SourceWPackagist, SourceVCS, SourcePackagist, SourceArchive}
}

// Validate checks if the SourceKind is a valid value.
func (s SourceKind) Validate() error {
	switch s {
	case SourceWPackagist, SourceVCS, SourcePackagist, SourceArchive:
		return nil
	case "":
		return fmt.Errorf("source kind is required")
	default:
		return fmt.Errorf("invalid source kind '%s' (must be wpackagist, vcs, packagist, or ziptar)", s)
	}
}

// String returns the string representation of the SourceKind.
func (s SourceKind) String() string {
	return string(s)
}

// IsRegistry returns true if requirements from this source are resolved by slug.
func (s SourceKind) IsRegistry() bool {
	return s == SourceWPackagist
}

// NeedsRepository returns true if this source requires a repository descriptor.
func (s SourceKind) NeedsRepository() bool {
	return s == SourceVCS || s == SourceArchive
}

// ParseSourceKind parses a string into a SourceKind.
func ParseSourceKind(s string) (SourceKind, error) {
	sk := SourceKind(strings.ToLower(s))
	if err := sk.Validate(); err != nil {
		return "", err
	}
	return sk, nil
}

// RepositoryType is the composer repository "type" field. Composer accepts
// more types than are named here; any non-empty type is valid.
type RepositoryType string

const (
	// RepositoryVCS points composer at a repository carrying its own composer.json.
	RepositoryVCS RepositoryType = "vcs"
	// RepositoryPackage inlines a synthetic package descriptor.
	RepositoryPackage RepositoryType = "package"
	// RepositoryComposer is an additional registry such as wpackagist.org.
	RepositoryComposer RepositoryType = "composer"
	RepositoryGit      RepositoryType = "git"
	RepositorySVN      RepositoryType = "svn"
	// RepositoryPath is a package on the local filesystem.
	RepositoryPath RepositoryType = "path"
	// RepositoryArtifact is a directory of zipped packages.
	RepositoryArtifact RepositoryType = "artifact"
)

// Validate checks that the RepositoryType is set.
func (t RepositoryType) Validate() error {
	if strings.TrimSpace(string(t)) == "" {
		return fmt.Errorf("repository type is required")
	}
	return nil
}

// NeedsURL returns true if repositories of this type are located by url.
func (t RepositoryType) NeedsURL() bool {
	switch t {
	case RepositoryVCS, RepositoryComposer, RepositoryGit, RepositorySVN, RepositoryPath, RepositoryArtifact,
		"hg", "fossil", "github", "gitlab", "bitbucket", "git-bitbucket", "perforce":
		return true
	}
	return false
}

// String returns the string representation of the RepositoryType.
func (t RepositoryType) String() string {
	return string(t)
}
