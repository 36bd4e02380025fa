// Package dump writes the files a local WordPress install is built from:
// composer.json, .env, nginx and hosts config, wp-cli.yml and package.json.
package dump

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/adamancini/wpstack/internal/composer"
	"github.com/adamancini/wpstack/internal/manifest"
	"github.com/adamancini/wpstack/internal/output"
	"github.com/adamancini/wpstack/internal/proxy"
	"github.com/adamancini/wpstack/internal/templates"
)

// Target names.
const (
	TargetVManifest = "vmanifest"
	TargetComposer  = "composer"
	TargetEnv       = "env"
	TargetDomains   = "domains"
	TargetWPCLI     = "wp-cli"
	TargetPackage   = "package"
	TargetNginx     = "nginx-config"
	TargetAll       = "all"
)

// Targets lists every dump target in the order "all" runs them.
var Targets = []string{
	TargetVManifest,
	TargetComposer,
	TargetEnv,
	TargetDomains,
	TargetWPCLI,
	TargetPackage,
	TargetNginx,
}

// dependents are targets implied by another target.
var dependents = map[string][]string{
	TargetDomains: {TargetWPCLI, TargetNginx},
}

// Dumper renders a manifest into files below a directory.
type Dumper struct {
	m      *manifest.Manifest
	dir    string
	logger *zap.Logger
	// random seeds new salts.
	random io.Reader

	written []string
}

// Option configures a Dumper.
type Option func(*Dumper)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dumper) { d.logger = logger }
}

// WithRandom replaces the salt entropy source.
func WithRandom(r io.Reader) Option {
	return func(d *Dumper) { d.random = r }
}

// New creates a Dumper writing below dir.
func New(m *manifest.Manifest, dir string, opts ...Option) *Dumper {
	d := &Dumper{
		m:      m,
		dir:    dir,
		logger: zap.NewNop(),
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Plan expands "all" and implied targets, dropping duplicates while keeping
// first-seen order.
func Plan(targets []string) ([]string, error) {
	var plan []string
	seen := make(map[string]bool)

	var add func(string) error
	add = func(t string) error {
		if t == TargetAll {
			for _, each := range Targets {
				if err := add(each); err != nil {
					return err
				}
			}
			return nil
		}
		if !isTarget(t) {
			return fmt.Errorf("unknown dump target %q", t)
		}
		if seen[t] {
			return nil
		}
		seen[t] = true
		plan = append(plan, t)
		for _, dep := range dependents[t] {
			if err := add(dep); err != nil {
				return err
			}
		}
		return nil
	}

	for _, t := range targets {
		if err := add(t); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func isTarget(t string) bool {
	for _, each := range Targets {
		if each == t {
			return true
		}
	}
	return false
}

// Run dumps every requested target and returns the paths written, relative
// to the output directory.
func (d *Dumper) Run(targets ...string) ([]string, error) {
	plan, err := Plan(targets)
	if err != nil {
		return nil, err
	}

	d.written = nil
	for _, t := range plan {
		d.logger.Debug("dumping target", zap.String("target", t))
		if err := d.dump(t); err != nil {
			return d.written, fmt.Errorf("dump %s: %w", t, err)
		}
	}
	return d.written, nil
}

func (d *Dumper) dump(target string) error {
	switch target {
	case TargetVManifest:
		doc, err := d.m.Document()
		if err != nil {
			return err
		}
		return d.writeJSON("vmanifest.json", doc)
	case TargetComposer:
		return d.dumpComposer()
	case TargetEnv:
		return d.dumpEnv()
	case TargetDomains:
		return d.render("config/vvv-hosts", templates.Hosts, templates.HostsData{Domains: d.m.Domains()})
	case TargetWPCLI:
		return d.dumpWPCLI()
	case TargetPackage:
		return d.dumpPackage()
	case TargetNginx:
		return d.dumpNginx()
	}
	return fmt.Errorf("unknown dump target %q", target)
}

func (d *Dumper) dumpComposer() error {
	root := composer.Root(d.m)
	if root == nil {
		d.logger.Warn("composer is turned off for this site in the manifest, skipping composer.json")
		return nil
	}
	if err := d.writeJSON("composer.json", root); err != nil {
		return err
	}

	if app := composer.App(d.m); app != nil {
		return d.writeJSON(composer.AppPath(d.m), app)
	}
	return nil
}

func (d *Dumper) dumpWPCLI() error {
	local := d.m.Server.Local
	data := templates.WPCLIData{
		Title: d.m.Title,
		URL:   local,
		User:  orDefault(d.m.Site.AdminUser, "admin"),
		Pass:  orDefault(d.m.Site.AdminPass, "password"),
		Email: orDefault(d.m.Site.AdminEmail, "admin@"+local),
		Path:  path.Join(composer.AppDir, d.m.Composer.Paths().WPPath),
	}
	return d.render("wp-cli.yml", templates.WPCLIConf, data)
}

// packageJSON is the grunt toolchain manifest.
type packageJSON struct {
	Name         string            `json:"name"`
	Version      string            `json:"version,omitempty"`
	Description  string            `json:"description,omitempty"`
	License      string            `json:"license,omitempty"`
	Main         string            `json:"main"`
	Scripts      map[string]string `json:"scripts"`
	Dependencies map[string]string `json:"dependencies"`
}

var gruntDependencies = map[string]string{
	"grunt":                  "^0.4.5",
	"grunt-confirm":          "^1.0.4",
	"grunt-contrib-clean":    "^0.7.0",
	"grunt-contrib-copy":     "^1.0.0",
	"grunt-gitpull":          "^0.3.0",
	"grunt-hardlink":         "^0.2.0",
	"grunt-http":             "^2.0.0",
	"grunt-svn-checkout":     "^0.3.0",
	"grunt-vagrant-commands": "^0.1.0",
	"load-grunt-config":      "^0.17.2",
}

func (d *Dumper) dumpPackage() error {
	return d.writeJSON("package.json", packageJSON{
		Name:         d.m.Site.Constant("DB_NAME"),
		Version:      d.m.Version,
		Description:  d.m.Description,
		License:      d.m.License,
		Main:         "Gruntfile.js",
		Scripts:      map[string]string{"test": `echo "Error: no test specified" && exit 1`},
		Dependencies: gruntDependencies,
	})
}

func (d *Dumper) dumpNginx() error {
	enabled := len(d.m.Server.Proxies) > 0

	err := d.render("vvv-nginx.conf", templates.NginxConf, templates.NginxData{
		Domains: d.m.Domains(),
		Path:    path.Join(composer.AppDir, orDefault(d.m.Server.Root, ".")),
		Proxy:   enabled,
	})
	if err != nil {
		return err
	}

	const proxyConf = "config/proxy.conf"
	if !enabled {
		return d.remove(proxyConf)
	}

	set := proxy.NormalizeAll(d.m.Server.Proxies, d.m.Server.Remote)
	d.logger.Debug("normalized proxy captures",
		zap.Int("declared", len(d.m.Server.Proxies)),
		zap.Strings("enabled", set.Names()))

	return d.render(proxyConf, templates.ProxyConf, templates.ProxyData{
		Prefix:  d.m.Site.Constant("DB_NAME"),
		Proxies: set,
	})
}

func (d *Dumper) render(rel, name string, data any) error {
	content, err := templates.Render(name, data)
	if err != nil {
		return err
	}
	return d.write(rel, content)
}

func (d *Dumper) writeJSON(rel string, v any) error {
	content, err := output.JSON(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", rel, err)
	}
	return d.write(rel, content)
}

func (d *Dumper) write(rel string, content []byte) error {
	full := filepath.Join(d.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(full, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	d.logger.Info("wrote file", zap.String("path", full))
	d.written = append(d.written, rel)
	return nil
}

func (d *Dumper) remove(rel string) error {
	full := filepath.Join(d.dir, filepath.FromSlash(rel))
	err := os.Remove(full)
	if err == nil {
		d.logger.Info("removed file", zap.String("path", full))
		return nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to remove %s: %w", rel, err)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
