// Package manifest handles installation manifest discovery, parsing and
// in-place updates.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// EnvVar names the environment variable that points at a manifest.
const EnvVar = "WPSTACK_MANIFEST"

// FileNames are the manifest names searched for, in order of precedence.
var FileNames = []string{
	"vmanifest.yaml",
	"vmanifest.yml",
	"vmanifest.toml",
	"vmanifest.json",
	"vmanifest",
}

// Manifest is the declarative description of one local WordPress install.
type Manifest struct {
	Title       string    `yaml:"title,omitempty" toml:"title,omitempty" json:"title,omitempty"`
	Name        string    `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Version     string    `yaml:"version,omitempty" toml:"version,omitempty" json:"version,omitempty"`
	Description string    `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	License     string    `yaml:"license,omitempty" toml:"license,omitempty" json:"license,omitempty"`
	Site        Site      `yaml:"site" toml:"site" json:"site"`
	Server      Server    `yaml:"server" toml:"server" json:"server"`
	Composer    *Composer `yaml:"composer,omitempty" toml:"composer,omitempty" json:"composer,omitempty"`
	Src         []Source  `yaml:"src,omitempty" toml:"src,omitempty" json:"src,omitempty"`
	// Other holds top-level keys the struct does not model, as decoded.
	Other map[string]any `yaml:"-" toml:"-" json:"-"`
}

// Site holds WordPress level settings.
type Site struct {
	Prefix      string         `yaml:"prefix,omitempty" toml:"prefix,omitempty" json:"prefix,omitempty"`
	Base        string         `yaml:"base,omitempty" toml:"base,omitempty" json:"base,omitempty"`
	AdminUser   string         `yaml:"admin-user,omitempty" toml:"admin-user,omitempty" json:"admin-user,omitempty"`
	AdminPass   string         `yaml:"admin-pass,omitempty" toml:"admin-pass,omitempty" json:"admin-pass,omitempty"`
	AdminEmail  string         `yaml:"admin-email,omitempty" toml:"admin-email,omitempty" json:"admin-email,omitempty"`
	ExternalEnv bool           `yaml:"external-env,omitempty" toml:"external-env,omitempty" json:"external-env,omitempty"`
	Constants   map[string]any `yaml:"constants,omitempty" toml:"constants,omitempty" json:"constants,omitempty"`
	Env         map[string]any `yaml:"env,omitempty" toml:"env,omitempty" json:"env,omitempty"`
}

// Constant returns a site constant formatted as a string, or "" if unset.
func (s Site) Constant(name string) string {
	v, ok := s.Constants[name]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Server holds the local web server settings.
type Server struct {
	Local      string   `yaml:"local,omitempty" toml:"local,omitempty" json:"local,omitempty"`
	Remote     string   `yaml:"remote,omitempty" toml:"remote,omitempty" json:"remote,omitempty"`
	Root       string   `yaml:"root,omitempty" toml:"root,omitempty" json:"root,omitempty"`
	Subdomains []string `yaml:"subdomains,omitempty" toml:"subdomains,omitempty" json:"subdomains,omitempty"`
	// Proxies maps capture names to captures in any shape internal/proxy accepts.
	Proxies map[string]any `yaml:"proxies,omitempty" toml:"proxies,omitempty" json:"proxies,omitempty"`
}

// Composer is the dependency manager subtree.
type Composer struct {
	Require          map[string]string `yaml:"require,omitempty" toml:"require,omitempty" json:"require,omitempty"`
	Repositories     []Repository      `yaml:"repositories,omitempty" toml:"repositories,omitempty" json:"repositories,omitempty"`
	Extra            map[string]any    `yaml:"extra,omitempty" toml:"extra,omitempty" json:"extra,omitempty"`
	Config           map[string]any    `yaml:"config,omitempty" toml:"config,omitempty" json:"config,omitempty"`
	MinimumStability string            `yaml:"minimum-stability,omitempty" toml:"minimum-stability,omitempty" json:"minimum-stability,omitempty"`
	PreferStable     bool              `yaml:"prefer-stable,omitempty" toml:"prefer-stable,omitempty" json:"prefer-stable,omitempty"`
	// InApp disables the app/composer.json variant when explicitly false.
	InApp *bool     `yaml:"in-app,omitempty" toml:"in-app,omitempty" json:"in-app,omitempty"`
	App   *AppPaths `yaml:"app,omitempty" toml:"app,omitempty" json:"app,omitempty"`
	// Other holds composer keys such as require-dev, autoload or scripts.
	Other map[string]any `yaml:"-" toml:"-" json:"-"`
}

// Repository is a composer repository descriptor.
type Repository struct {
	Type    string   `yaml:"type" toml:"type" json:"type"`
	URL     string   `yaml:"url,omitempty" toml:"url,omitempty" json:"url,omitempty"`
	Package *Package `yaml:"package,omitempty" toml:"package,omitempty" json:"package,omitempty"`
}

// Package is a synthetic package descriptor for sources without composer metadata.
type Package struct {
	Name    string         `yaml:"name" toml:"name" json:"name"`
	Version string         `yaml:"version" toml:"version" json:"version"`
	Type    string         `yaml:"type" toml:"type" json:"type"`
	Source  *PackageOrigin `yaml:"source,omitempty" toml:"source,omitempty" json:"source,omitempty"`
	Dist    *PackageOrigin `yaml:"dist,omitempty" toml:"dist,omitempty" json:"dist,omitempty"`
}

// PackageOrigin is where composer downloads a synthetic package from.
type PackageOrigin struct {
	URL  string `yaml:"url" toml:"url" json:"url"`
	Type string `yaml:"type" toml:"type" json:"type"`
}

// AppPaths locates the application tree relative to the app directory.
type AppPaths struct {
	ComposerPath string `yaml:"composer-path,omitempty" toml:"composer-path,omitempty" json:"composer-path,omitempty"`
	VendorDir    string `yaml:"vendor-dir,omitempty" toml:"vendor-dir,omitempty" json:"vendor-dir,omitempty"`
	WPPath       string `yaml:"wp-path,omitempty" toml:"wp-path,omitempty" json:"wp-path,omitempty"`
	ThemePath    string `yaml:"theme-path,omitempty" toml:"theme-path,omitempty" json:"theme-path,omitempty"`
	PluginPath   string `yaml:"plugin-path,omitempty" toml:"plugin-path,omitempty" json:"plugin-path,omitempty"`
	MUPluginPath string `yaml:"mu-plugin-path,omitempty" toml:"mu-plugin-path,omitempty" json:"mu-plugin-path,omitempty"`
}

// DefaultAppPaths are used for every path the manifest leaves unset.
var DefaultAppPaths = AppPaths{
	ComposerPath: ".",
	VendorDir:    "vendor",
	WPPath:       "wp",
	ThemePath:    "content/themes",
	PluginPath:   "content/plugins",
	MUPluginPath: "content/mu-plugins",
}

// Paths returns the app paths with defaults filled in.
func (c *Composer) Paths() AppPaths {
	p := DefaultAppPaths
	if c == nil || c.App == nil {
		return p
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.ComposerPath, c.App.ComposerPath)
	set(&p.VendorDir, c.App.VendorDir)
	set(&p.WPPath, c.App.WPPath)
	set(&p.ThemePath, c.App.ThemePath)
	set(&p.PluginPath, c.App.PluginPath)
	set(&p.MUPluginPath, c.App.MUPluginPath)
	return p
}

// AddRequirement records a requirement. An existing key is overwritten.
func (c *Composer) AddRequirement(name, constraint string) {
	if c.Require == nil {
		c.Require = make(map[string]string)
	}
	c.Require[name] = constraint
}

// AddRepository appends a repository descriptor.
func (c *Composer) AddRepository(r Repository) {
	c.Repositories = append(c.Repositories, r)
}

// Source is a plugin, theme or mu-plugin under local development.
type Source struct {
	Name   string `yaml:"name" toml:"name" json:"name"`
	Map    string `yaml:"map,omitempty" toml:"map,omitempty" json:"map,omitempty"`
	Type   string `yaml:"type,omitempty" toml:"type,omitempty" json:"type,omitempty"`
	URL    string `yaml:"url,omitempty" toml:"url,omitempty" json:"url,omitempty"`
	Stable string `yaml:"stable,omitempty" toml:"stable,omitempty" json:"stable,omitempty"`
}

// EnsureComposer returns the composer subtree, creating it if the manifest has none.
func (m *Manifest) EnsureComposer() *Composer {
	if m.Composer == nil {
		m.Composer = &Composer{}
	}
	if m.Composer.Require == nil {
		m.Composer.Require = make(map[string]string)
	}
	return m.Composer
}

// SetProxy stores a capture under name in server.proxies, creating the
// mapping if needed.
func (m *Manifest) SetProxy(name string, capture any) {
	if m.Server.Proxies == nil {
		m.Server.Proxies = make(map[string]any)
	}
	m.Server.Proxies[name] = capture
}

// Domains returns server.local followed by each subdomain of it.
func (m *Manifest) Domains() []string {
	domains := []string{m.Server.Local}
	for _, sub := range m.Server.Subdomains {
		domains = append(domains, sub+"."+m.Server.Local)
	}
	return domains
}

// Find locates the manifest. An explicit path wins, then $WPSTACK_MANIFEST,
// then the first of FileNames present in dir.
func Find(explicitPath, dir string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("specified manifest not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	if envPath := os.Getenv(EnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no manifest found in %s", dir)
}

// Load reads, parses and validates a manifest.
func Load(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Decode(path, content)
}

// Decode parses and validates manifest content. name only selects the format
// by extension; content is sniffed when the extension says nothing.
func Decode(name string, content []byte) (*Manifest, error) {
	format := detectFormat(name, content)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unable to detect file format for %s", name)
	}

	m, err := parse(content, format)
	if err != nil {
		return nil, err
	}

	if err := Validate(m); err != nil {
		return nil, err
	}

	return m, nil
}

// Save writes m to path in the format the existing file uses (or the one its
// extension implies for a new file). An existing document is patched rather
// than replaced: only server.proxies, composer.require and
// composer.repositories are written back, so unmodeled keys survive, and
// YAML comments too.
func Save(path string, m *Manifest) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	format := detectFormat(path, existing)
	if format == FormatUnknown {
		format = FormatYAML
	}

	var content []byte
	if len(bytes.TrimSpace(existing)) == 0 {
		content, err = encode(m, format)
	} else {
		content, err = patch(existing, m, format)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
