package manifest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComposerPaths(t *testing.T) {
	var nilComposer *Composer
	if diff := cmp.Diff(DefaultAppPaths, nilComposer.Paths()); diff != "" {
		t.Errorf("nil composer paths mismatch (-want +got):\n%s", diff)
	}

	c := &Composer{App: &AppPaths{WPPath: "core", PluginPath: "ext/plugins"}}
	want := DefaultAppPaths
	want.WPPath = "core"
	want.PluginPath = "ext/plugins"
	if diff := cmp.Diff(want, c.Paths()); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestEnsureComposer(t *testing.T) {
	m := &Manifest{}
	c := m.EnsureComposer()
	if c == nil || m.Composer != c || c.Require == nil {
		t.Fatal("EnsureComposer() did not create the subtree")
	}

	c.AddRequirement("a", "1")
	if m.EnsureComposer().Require["a"] != "1" {
		t.Error("EnsureComposer() replaced an existing subtree")
	}
}

func TestAddRequirementOverwrites(t *testing.T) {
	c := &Composer{}
	c.AddRequirement("wpackagist-plugin/akismet", "1.0")
	c.AddRequirement("wpackagist-plugin/akismet", "latest")

	if len(c.Require) != 1 || c.Require["wpackagist-plugin/akismet"] != "latest" {
		t.Errorf("Require = %v", c.Require)
	}
}

func TestAddRepositoryAppends(t *testing.T) {
	c := &Composer{}
	c.AddRepository(Repository{Type: "vcs", URL: "a"})
	c.AddRepository(Repository{Type: "vcs", URL: "a"})

	if len(c.Repositories) != 2 {
		t.Errorf("Repositories = %d, want 2", len(c.Repositories))
	}
}

func TestSetProxy(t *testing.T) {
	m := &Manifest{}
	m.SetProxy("cdn", "https://cdn.test")
	m.SetProxy("off", false)

	if len(m.Server.Proxies) != 2 || m.Server.Proxies["cdn"] != "https://cdn.test" {
		t.Errorf("Proxies = %v", m.Server.Proxies)
	}
}

func TestDomains(t *testing.T) {
	m := &Manifest{Server: Server{Local: "example.test", Subdomains: []string{"shop", "blog"}}}
	want := []string{"example.test", "shop.example.test", "blog.example.test"}

	if diff := cmp.Diff(want, m.Domains()); diff != "" {
		t.Errorf("Domains() mismatch (-want +got):\n%s", diff)
	}
}

func TestSiteConstant(t *testing.T) {
	s := Site{Constants: map[string]any{"DB_NAME": "wp", "WP_DEBUG": true, "EMPTY": nil}}

	tests := map[string]string{
		"DB_NAME":  "wp",
		"WP_DEBUG": "true",
		"EMPTY":    "",
		"MISSING":  "",
	}
	for name, want := range tests {
		if got := s.Constant(name); got != want {
			t.Errorf("Constant(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestDecode(t *testing.T) {
	t.Setenv("DECODE_LOCAL", "acme.test")

	m, err := Decode("vmanifest", []byte(`{"server": {"local": "${DECODE_LOCAL}"}}`))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if m.Server.Local != "acme.test" {
		t.Errorf("server.local = %q, want acme.test", m.Server.Local)
	}

	if _, err := Decode("vmanifest.yaml", []byte("title: no server\n")); err == nil {
		t.Error("expected validation error for missing server.local")
	}
}

func TestDecodePathRepository(t *testing.T) {
	content := "server:\n  local: acme.test\ncomposer:\n  repositories:\n    - type: path\n      url: ../plugins/foo\n"
	m, err := Decode("vmanifest.yaml", []byte(content))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got := m.Composer.Repositories[0].URL; got != "../plugins/foo" {
		t.Errorf("url = %q, want ../plugins/foo", got)
	}
}
