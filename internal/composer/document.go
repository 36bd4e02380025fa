package composer

import (
	"path"
	"path/filepath"

	"github.com/adamancini/wpstack/internal/manifest"
)

// AppDir is the directory the WordPress application lives in, relative to
// the manifest.
const AppDir = "app"

// srcMaps are the src map values that become dependencies of the app.
var srcMaps = map[string]bool{"plugin": true, "theme": true, "muplugin": true}

// Document is a composer.json document.
type Document map[string]any

// Root builds the project-level composer.json. It returns nil when the
// manifest has no composer section.
func Root(m *manifest.Manifest) Document {
	if m.Composer == nil {
		return nil
	}
	doc := base(m)
	mergePaths(doc, m.Composer.Paths(), AppDir)
	return doc
}

// App builds app/<composer-path>/composer.json. Installer paths are relative
// to the app and every src entry mapped as a plugin, theme or mu-plugin is
// added as a repository and requirement. It returns nil when the manifest
// has no composer section or in-app is switched off.
func App(m *manifest.Manifest) Document {
	if m.Composer == nil || (m.Composer.InApp != nil && !*m.Composer.InApp) {
		return nil
	}
	doc := base(m)

	require := doc["require"].(map[string]string)
	repos := doc["repositories"].([]manifest.Repository)
	for _, src := range m.Src {
		if !srcMaps[src.Map] {
			continue
		}
		repos = append(repos, manifest.Repository{Type: src.Type, URL: src.URL})
		require[src.Name] = src.Stable
	}
	doc["repositories"] = repos

	mergePaths(doc, m.Composer.Paths(), ".")
	return doc
}

// AppPath returns where App's document is written, relative to the manifest.
func AppPath(m *manifest.Manifest) string {
	return path.Join(AppDir, m.Composer.Paths().ComposerPath, "composer.json")
}

// base copies the package metadata and the composer subtree into a fresh
// document so callers may mutate it freely. Top-level and composer keys the
// manifest does not model (authors, autoload, require-dev, scripts...) pass
// through, composer keys winning.
func base(m *manifest.Manifest) Document {
	c := m.Composer
	doc := Document{}

	for k, v := range copyMap(m.Other) {
		doc[k] = v
	}
	for k, v := range copyMap(c.Other) {
		doc[k] = v
	}

	for key, value := range map[string]string{
		"name":        m.Name,
		"description": m.Description,
		"license":     m.License,
		"version":     m.Version,
	} {
		if value != "" {
			doc[key] = value
		}
	}

	require := make(map[string]string, len(c.Require))
	for k, v := range c.Require {
		require[k] = v
	}
	doc["require"] = require
	doc["repositories"] = append([]manifest.Repository{}, c.Repositories...)
	doc["extra"] = copyMap(c.Extra)
	if len(c.Config) > 0 {
		doc["config"] = copyMap(c.Config)
	}
	if c.MinimumStability != "" {
		doc["minimum-stability"] = c.MinimumStability
	}
	if c.PreferStable {
		doc["prefer-stable"] = true
	}
	return doc
}

// mergePaths adds the installer layout for paths, rooted at root.
func mergePaths(doc Document, paths manifest.AppPaths, root string) {
	extra := doc["extra"].(map[string]any)

	installers, _ := extra["installer-paths"].(map[string]any)
	if installers == nil {
		installers = make(map[string]any)
	}
	installers[path.Join(root, paths.ThemePath, "{$name}")] = []string{"type:wordpress-theme"}
	installers[path.Join(root, paths.PluginPath, "{$name}")] = []string{"type:wordpress-plugin"}
	installers[path.Join(root, paths.MUPluginPath, "{$name}")] = []string{"type:wordpress-muplugin"}
	extra["installer-paths"] = installers
	extra["wordpress-install-dir"] = path.Join(root, paths.WPPath)

	vendor := paths.VendorDir
	if rel, err := filepath.Rel(paths.ComposerPath, paths.VendorDir); err == nil {
		vendor = filepath.ToSlash(rel)
	}
	vendor = path.Join(root, vendor)
	if vendor != "vendor" {
		config, _ := doc["config"].(map[string]any)
		if config == nil {
			config = make(map[string]any)
		}
		config["vendor-dir"] = vendor
		doc["config"] = config
	}
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = copyMap(nested)
		}
		out[k] = v
	}
	return out
}
