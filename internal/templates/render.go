package templates

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/adamancini/wpstack/internal/proxy"
)

//go:embed config/*.tmpl
var configFS embed.FS

// Names of the config templates.
const (
	ProxyConf  = "proxy.conf"
	NginxConf  = "vvv-nginx.conf"
	Hosts      = "vvv-hosts"
	WPCLIConf  = "wp-cli.yml"
	tmplSuffix = ".tmpl"
)

var funcs = template.FuncMap{
	"inc":   func(i int) int { return i + 1 },
	"join":  strings.Join,
	"quote": strconv.Quote,
}

var configTemplates = template.Must(
	template.New("config").Funcs(funcs).ParseFS(configFS, "config/*"+tmplSuffix),
)

// ProxyData feeds proxy.conf.
type ProxyData struct {
	// Prefix namespaces the named nginx locations, usually DB_NAME.
	Prefix  string
	Proxies proxy.Set
}

// NginxData feeds vvv-nginx.conf.
type NginxData struct {
	Domains []string
	// Path is the document root relative to the site directory.
	Path  string
	Proxy bool
}

// HostsData feeds vvv-hosts.
type HostsData struct {
	Domains []string
}

// WPCLIData feeds wp-cli.yml.
type WPCLIData struct {
	Title string
	URL   string
	User  string
	Pass  string
	Email string
	Path  string
}

// Render executes the named config template.
func Render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := configTemplates.ExecuteTemplate(&buf, name+tmplSuffix, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
