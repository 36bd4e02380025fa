package templates

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/adamancini/wpstack/internal/manifest"
	"github.com/adamancini/wpstack/internal/proxy"
)

func TestList(t *testing.T) {
	names := List()

	expected := []string{"full", "minimal"}
	if strings.Join(names, ",") != strings.Join(expected, ",") {
		t.Errorf("List() = %v, want %v", names, expected)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"minimal", false},
		{"full", false},
		{"nonexistent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Get(tt.name)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Get(%s) expected error, got nil", tt.name)
				}
				return
			}

			if err != nil {
				t.Fatalf("Get(%s) unexpected error: %v", tt.name, err)
			}
			if tmpl.Name != tt.name {
				t.Errorf("Get(%s) name = %s, want %s", tt.name, tmpl.Name, tt.name)
			}
			if !strings.Contains(string(tmpl.Content), "local:") {
				t.Errorf("Get(%s) content missing 'local:' field", tt.name)
			}
		})
	}
}

func TestGetDescription(t *testing.T) {
	if GetDescription("minimal") == "Custom template" {
		t.Error("minimal should have a description")
	}
	if got := GetDescription("unknown"); got != "Custom template" {
		t.Errorf("GetDescription(unknown) = %q", got)
	}
}

func TestVariables(t *testing.T) {
	tmpl, err := Get("minimal")
	if err != nil {
		t.Fatalf("Get(minimal) error: %v", err)
	}

	want := []string{"WPSTACK_DB_NAME", "WPSTACK_LOCAL", "WPSTACK_TITLE"}
	if got := tmpl.Variables(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Variables() = %v, want %v", got, want)
	}

	if got := (&Template{Content: []byte("local: example.test")}).Variables(); len(got) != 0 {
		t.Errorf("Variables() = %v, want none", got)
	}
}

func TestStartersExpand(t *testing.T) {
	t.Setenv("WPSTACK_LOCAL", "acme.test")

	tmpl, err := Get("minimal")
	if err != nil {
		t.Fatalf("Get(minimal) error: %v", err)
	}

	content := string(manifest.ExpandEnv(tmpl.Content))
	if strings.Contains(content, "${") {
		t.Error("starter left variables unexpanded")
	}
	if !strings.Contains(content, "local: acme.test") {
		t.Errorf("starter did not use WPSTACK_LOCAL:\n%s", content)
	}
}

func TestStartersAreValidYAML(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			tmpl, err := Get(name)
			if err != nil {
				t.Fatalf("Get(%s) error: %v", name, err)
			}
			var doc map[string]any
			if err := yaml.Unmarshal(manifest.ExpandEnv(tmpl.Content), &doc); err != nil {
				t.Fatalf("starter %s is not valid YAML: %v", name, err)
			}
			if _, ok := doc["server"]; !ok {
				t.Errorf("starter %s missing server section", name)
			}
		})
	}
}

func TestRenderProxyConf(t *testing.T) {
	set := proxy.Set{
		"uploads": {
			Proxies: []proxy.Location{
				{URL: "https://a.test"},
				{URL: "https://b.test", Rewrite: "/wp-content(.*) $1"},
			},
			Match: `\.(jpg|png)$`,
		},
	}

	out, err := Render(ProxyConf, ProxyData{Prefix: "acme", Proxies: set})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	conf := string(out)

	for _, want := range []string{
		`location ~* \.(jpg|png)$ {`,
		"try_files $uri @acme_uploads_0;",
		"location @acme_uploads_0 {",
		"proxy_pass https://a.test;",
		"error_page 404 = @acme_uploads_1;",
		"rewrite ^/wp-content(.*) $1 break;",
		"proxy_pass https://b.test;",
	} {
		if !strings.Contains(conf, want) {
			t.Errorf("proxy.conf missing %q:\n%s", want, conf)
		}
	}
	if strings.Contains(conf, "@acme_uploads_2") {
		t.Errorf("last location should not chain further:\n%s", conf)
	}
}

func TestRenderNginxConf(t *testing.T) {
	data := NginxData{Domains: []string{"acme.test", "shop.acme.test"}, Path: "app"}

	out, err := Render(NginxConf, data)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(string(out), "server_name  acme.test shop.acme.test;") {
		t.Errorf("unexpected server_name:\n%s", out)
	}
	if strings.Contains(string(out), "proxy.conf") {
		t.Error("proxy include rendered without proxies")
	}

	data.Proxy = true
	out, _ = Render(NginxConf, data)
	if !strings.Contains(string(out), "config/proxy.conf") {
		t.Error("proxy include missing")
	}
}

func TestRenderHostsAndWPCLI(t *testing.T) {
	out, err := Render(Hosts, HostsData{Domains: []string{"acme.test", "shop.acme.test"}})
	if err != nil {
		t.Fatalf("Render(hosts) error: %v", err)
	}
	if strings.TrimSpace(string(out)) != "acme.test\nshop.acme.test" {
		t.Errorf("hosts = %q", out)
	}

	out, err = Render(WPCLIConf, WPCLIData{Title: `Acme "Site"`, URL: "acme.test", User: "admin", Pass: "password", Email: "admin@acme.test", Path: "app/wp"})
	if err != nil {
		t.Fatalf("Render(wp-cli) error: %v", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("wp-cli.yml is not valid YAML: %v\n%s", err, out)
	}
	install := doc["core install"].(map[string]any)
	if install["title"] != `Acme "Site"` || doc["path"] != "app/wp" {
		t.Errorf("wp-cli.yml = %v", doc)
	}
}

func TestRenderUnknown(t *testing.T) {
	if _, err := Render("missing", nil); err == nil {
		t.Error("expected error for unknown template")
	}
}
