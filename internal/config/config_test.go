package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Backend != defaultBackend {
		t.Fatalf("Backend = %q, want %q", cfg.Backend, defaultBackend)
	}
	if cfg.ProxyListen != defaultProxyListen {
		t.Fatalf("ProxyListen = %q, want %q", cfg.ProxyListen, defaultProxyListen)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	tmp := t.TempDir()
	cfgFile := filepath.Join(tmp, "config.toml")
	body := "backend = \"hearthd.local:9000\"\nproxy_listen = \"127.0.0.1:9001\"\nchangelog = \"/srv/hearth/CHANGELOG.txt\"\n"
	if err := os.WriteFile(cfgFile, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Backend != "hearthd.local:9000" {
		t.Fatalf("Backend = %q, want hearthd.local:9000", cfg.Backend)
	}
	if cfg.ProxyListen != "127.0.0.1:9001" {
		t.Fatalf("ProxyListen = %q, want 127.0.0.1:9001", cfg.ProxyListen)
	}
	if cfg.ChangelogPath != "/srv/hearth/CHANGELOG.txt" {
		t.Fatalf("ChangelogPath = %q, want /srv/hearth/CHANGELOG.txt", cfg.ChangelogPath)
	}
}

func TestLoad_MalformedFileFails(t *testing.T) {
	tmp := t.TempDir()
	cfgFile := filepath.Join(tmp, "config.toml")
	if err := os.WriteFile(cfgFile, []byte("backend = [broken"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(cfgFile); err == nil {
		t.Fatal("Load succeeded on malformed config, want error")
	}
}

func TestLoad_BlankFieldsKeepDefaults(t *testing.T) {
	tmp := t.TempDir()
	cfgFile := filepath.Join(tmp, "config.toml")
	if err := os.WriteFile(cfgFile, []byte("backend = \"  \"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Backend != defaultBackend {
		t.Fatalf("Backend = %q, want default %q", cfg.Backend, defaultBackend)
	}
}
