// Package composer turns collected dependencies into composer requirements
// and repository descriptors, and assembles composer.json documents from a
// manifest.
package composer

import (
	"fmt"
	"path"
	"strings"

	"github.com/adamancini/wpstack/internal/manifest"
	"github.com/adamancini/wpstack/internal/types"
)

// Dependency is one confirmed dependency declaration.
type Dependency struct {
	Kind   types.DependencyKind
	Source types.SourceKind
	// Slug is the wordpress.org slug, set for registry sources.
	Slug string
	// URL is the repository or archive location, set for vcs and ziptar sources.
	URL string
	// HasMetadata reports whether a vcs source carries its own composer.json.
	HasMetadata bool
	// Name is the composer package name, set for every non-registry source.
	Name    string
	Version string
}

// Validate checks that the fields the source kind needs are present.
func (d Dependency) Validate() error {
	if err := d.Kind.Validate(); err != nil {
		return err
	}
	if err := d.Source.Validate(); err != nil {
		return err
	}
	if d.Version == "" {
		return fmt.Errorf("version constraint is required")
	}

	switch d.Source {
	case types.SourceWPackagist:
		if d.Slug == "" {
			return fmt.Errorf("slug is required for %s dependencies", d.Source)
		}
	case types.SourceVCS, types.SourceArchive:
		if d.URL == "" {
			return fmt.Errorf("url is required for %s dependencies", d.Source)
		}
		fallthrough
	case types.SourcePackagist:
		if d.Name == "" {
			return fmt.Errorf("package name is required for %s dependencies", d.Source)
		}
	}
	return nil
}

// RequirementKey returns the composer.require key, e.g.
// "wpackagist-plugin/akismet" for registry sources or the package name.
func (d Dependency) RequirementKey() string {
	if d.Source.IsRegistry() {
		return fmt.Sprintf("%s-%s/%s", types.WPackagistPrefix, d.Kind, d.Slug)
	}
	return d.Name
}

// Repository returns the repository descriptor composer needs to locate the
// dependency. The boolean is false for sources resolved by a registry.
func (d Dependency) Repository() (manifest.Repository, bool) {
	if !d.Source.NeedsRepository() {
		return manifest.Repository{}, false
	}

	if d.Source == types.SourceVCS && d.HasMetadata {
		return manifest.Repository{Type: types.RepositoryVCS.String(), URL: d.URL}, true
	}

	origin := &manifest.PackageOrigin{URL: d.URL, Type: types.RepositoryVCS.String()}
	if d.Source == types.SourceArchive {
		origin.Type = ArchiveType(d.URL)
	}

	pkg := &manifest.Package{
		Name:    d.Name,
		Version: d.Version,
		Type:    d.Kind.PackageType(),
	}
	if d.HasMetadata {
		pkg.Source = origin
	} else {
		pkg.Dist = origin
	}

	return manifest.Repository{Type: types.RepositoryPackage.String(), Package: pkg}, true
}

// Apply commits the dependency into c: the requirement overwrites any
// existing entry with the same key and the repository, if any, is appended.
func (d Dependency) Apply(c *manifest.Composer) {
	c.AddRequirement(d.RequirementKey(), d.Version)
	if repo, ok := d.Repository(); ok {
		c.AddRepository(repo)
	}
}

// ArchiveType derives a composer dist type from an archive URL: "zip" for
// .zip, "tar" for tarballs and the bare extension otherwise.
func ArchiveType(url string) string {
	p := strings.ToLower(url)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	for _, ext := range []string{".tar.gz", ".tar.bz2", ".tar.xz", ".tgz", ".tar"} {
		if strings.HasSuffix(p, ext) {
			return "tar"
		}
	}
	return strings.TrimPrefix(path.Ext(p), ".")
}
