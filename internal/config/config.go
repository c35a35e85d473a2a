package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields hearth needs to reach the hearthd backend and
// serve its local API proxy.
type Config struct {
	Backend       string // base URL of the hearthd REST/SSE backend
	ProxyListen   string // host:port for the embedded /api proxy
	ChangelogPath string // bundled changelog consulted by /api/client-version
}

const (
	defaultConfigPath  = "~/.config/hearth/config.toml"
	defaultBackend     = "127.0.0.1:8765"
	defaultProxyListen = "127.0.0.1:8787"
	defaultChangelog   = "~/.local/share/hearth/CHANGELOG.txt"
)

// Load locates and parses the hearth config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Backend:       defaultBackend,
		ProxyListen:   defaultProxyListen,
		ChangelogPath: mustExpand(defaultChangelog),
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Backend     string `toml:"backend"`
		ProxyListen string `toml:"proxy_listen"`
		Changelog   string `toml:"changelog"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if backend := strings.TrimSpace(raw.Backend); backend != "" {
		cfg.Backend = backend
	}
	if listen := strings.TrimSpace(raw.ProxyListen); listen != "" {
		cfg.ProxyListen = listen
	}
	if changelog := strings.TrimSpace(raw.Changelog); changelog != "" {
		cfg.ChangelogPath = mustExpand(changelog)
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
