package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p := Load("")
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.SelectedClient != "" {
		t.Fatalf("SelectedClient = %q, want empty", p.SelectedClient)
	}
}

func TestLoad_CorruptFileUsesDefaults(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("selected_client = [nope"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load(prefsFile)
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want default %q after corrupt read", p.Theme, defaultTheme)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "nested", "prefs.toml")

	in := Prefs{
		SelectedClient:    "client-7",
		SeenServerVersion: "1.4.2",
		SeenClientVersion: "0.9.0",
		OpenChatSessions:  []string{"s-1", "s-2"},
		Theme:             "Ember",
	}
	if err := Save(prefsFile, in); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	out := Load(prefsFile)
	if out.SelectedClient != in.SelectedClient {
		t.Fatalf("SelectedClient = %q, want %q", out.SelectedClient, in.SelectedClient)
	}
	if out.SeenServerVersion != in.SeenServerVersion || out.SeenClientVersion != in.SeenClientVersion {
		t.Fatalf("versions = %q/%q, want %q/%q",
			out.SeenServerVersion, out.SeenClientVersion, in.SeenServerVersion, in.SeenClientVersion)
	}
	if len(out.OpenChatSessions) != 2 || out.OpenChatSessions[0] != "s-1" {
		t.Fatalf("OpenChatSessions = %#v, want %#v", out.OpenChatSessions, in.OpenChatSessions)
	}
}
