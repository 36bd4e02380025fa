package dump

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/adamancini/wpstack/internal/composer"
)

// ConstPrefix marks env keys that are defined as WordPress constants.
const ConstPrefix = "WPCONST_"

// SaltKeys are the WordPress authentication keys and salts.
var SaltKeys = []string{
	ConstPrefix + "AUTH_KEY",
	ConstPrefix + "SECURE_AUTH_KEY",
	ConstPrefix + "LOGGED_IN_KEY",
	ConstPrefix + "NONCE_KEY",
	ConstPrefix + "AUTH_SALT",
	ConstPrefix + "SECURE_AUTH_SALT",
	ConstPrefix + "LOGGED_IN_SALT",
	ConstPrefix + "NONCE_SALT",
}

// SaltPlaceholder stands in for salts in .env.example.
const SaltPlaceholder = "your_key_here"

const saltBytes = 64

func (d *Dumper) envDir() string {
	if d.m.Site.ExternalEnv {
		return "."
	}
	return composer.AppDir
}

func (d *Dumper) dumpEnv() error {
	dir := d.envDir()

	existing, err := readEnvFile(filepath.Join(d.dir, dir, ".env"))
	if err != nil {
		d.logger.Warn("ignoring unreadable .env, generating fresh salts", zap.Error(err))
		existing = nil
	}

	env := d.baseEnv()
	example := make(map[string]string, len(env)+len(SaltKeys))
	for k, v := range env {
		example[k] = v
	}

	for _, key := range SaltKeys {
		salt, ok := existing[key]
		if !ok || salt == "" {
			if salt, err = d.newSalt(); err != nil {
				return err
			}
		}
		env[key] = salt
		example[key] = SaltPlaceholder
	}

	if err := d.write(path.Join(dir, ".env"), formatEnv(env)); err != nil {
		return err
	}
	return d.write(path.Join(dir, ".env.example"), formatEnv(example))
}

// baseEnv collects every non-salt entry.
func (d *Dumper) baseEnv() map[string]string {
	site := d.m.Site
	env := make(map[string]string)

	for name, value := range site.Constants {
		env[ConstPrefix+name] = scalar(value)
	}
	env["SITE_TITLE"] = d.m.Title
	env["TABLE_PREFIX"] = orDefault(site.Prefix, "wp_")
	if truthy(site.Constants["MULTISITE"]) {
		env["INSTALL_BASE"] = orDefault(site.Base, "/")
	}
	for name, value := range site.Env {
		env[name] = scalar(value)
	}
	return env
}

func (d *Dumper) newSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := io.ReadFull(d.random, buf); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// formatEnv renders KEY=value lines sorted by key.
func formatEnv(env map[string]string) []byte {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&buf, "%s=%s\n", k, env[k])
	}
	return buf.Bytes()
}

// readEnvFile parses a dotenv file. A missing file yields an empty map.
func readEnvFile(name string) (map[string]string, error) {
	f, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return godotenv.Parse(f)
}

func scalar(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// truthy reports whether a manifest value switches something on.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return val != ""
		}
		return b
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	}
	return true
}
