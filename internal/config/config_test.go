package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultDays != 14 {
		t.Errorf("DefaultDays = %d, want 14", cfg.DefaultDays)
	}
	if cfg.MaxDays != 30 {
		t.Errorf("MaxDays = %d, want 30", cfg.MaxDays)
	}
	if cfg.ExportsDir != filepath.Join(tmpDir, "exports") {
		t.Errorf("ExportsDir = %q, want %q", cfg.ExportsDir, filepath.Join(tmpDir, "exports"))
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"max_days": 21, "save_debounce_ms": 500}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxDays != 21 {
		t.Errorf("MaxDays = %d, want 21", cfg.MaxDays)
	}
	if cfg.SaveDebounce() != 500*time.Millisecond {
		t.Errorf("SaveDebounce() = %v, want 500ms", cfg.SaveDebounce())
	}
	// Untouched fields keep defaults
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{not json}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"disabled_tools": ["itinerary_export", "trip_list"]}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
	if cfg.DisabledTools[0] != "itinerary_export" {
		t.Errorf("DisabledTools[0] = %q, want %q", cfg.DisabledTools[0], "itinerary_export")
	}
}

func TestResolve_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte(`{"port": 4000, "bind": "0.0.0.0"}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Chdir(tmpDir) // no .env here
	t.Setenv("INDOTRIP_PORT", "5050")
	t.Setenv("INDOTRIP_CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Resolve(tmpDir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Port != 5050 {
		t.Errorf("Port = %d, want 5050 (env)", cfg.Port)
	}
	if cfg.Bind != "0.0.0.0" {
		t.Errorf("Bind = %q, want 0.0.0.0 (file)", cfg.Bind)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want 2 entries", cfg.CORSOrigins)
	}
	if cfg.ExportsDir != filepath.Join(tmpDir, "exports") {
		t.Errorf("ExportsDir = %q", cfg.ExportsDir)
	}
}

func TestResolve_DotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("INDOTRIP_MAX_DAYS=20\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Chdir(tmpDir)
	// godotenv never overrides variables that are already set, so make sure
	// the variable is absent and restore it afterwards.
	t.Setenv("INDOTRIP_MAX_DAYS", "")
	os.Unsetenv("INDOTRIP_MAX_DAYS")

	cfg, err := Resolve(tmpDir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.MaxDays != 20 {
		t.Errorf("MaxDays = %d, want 20 (.env)", cfg.MaxDays)
	}
}

func TestResolve_RejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte(`{"default_days": 40}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Chdir(tmpDir)

	if _, err := Resolve(tmpDir); err == nil {
		t.Fatal("Resolve() expected error for default_days > max_days")
	}
}

func TestBaseDir_EnvOverride(t *testing.T) {
	t.Setenv("INDOTRIP_HOME", "/srv/indotrip")

	dir, err := BaseDir()
	if err != nil {
		t.Fatalf("BaseDir() error = %v", err)
	}
	if dir != "/srv/indotrip" {
		t.Errorf("BaseDir() = %q, want /srv/indotrip", dir)
	}
}

func TestMerge_ScalarOverride(t *testing.T) {
	base := &Config{MaxDays: 30, DBMaxOpenConns: 5, Bind: "127.0.0.1"}
	overlay := &Config{MaxDays: 10} // DBMaxOpenConns is 0 (zero value)

	result := Merge(base, overlay)

	if result.MaxDays != 10 {
		t.Errorf("MaxDays = %d, want 10 (overlay)", result.MaxDays)
	}
	if result.DBMaxOpenConns != 5 {
		t.Errorf("DBMaxOpenConns = %d, want 5 (base, overlay is zero)", result.DBMaxOpenConns)
	}
	if result.Bind != "127.0.0.1" {
		t.Errorf("Bind = %q, want base value", result.Bind)
	}
}

func TestMerge_ArraysDeduplicated(t *testing.T) {
	base := &Config{DisabledTools: []string{"trip_list", " vote_cast "}}
	overlay := &Config{DisabledTools: []string{"vote_cast", "itinerary_export", ""}}

	result := Merge(base, overlay)

	want := []string{"trip_list", "vote_cast", "itinerary_export"}
	if len(result.DisabledTools) != len(want) {
		t.Fatalf("DisabledTools = %v, want %v", result.DisabledTools, want)
	}
	for i := range want {
		if result.DisabledTools[i] != want[i] {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, result.DisabledTools[i], want[i])
		}
	}
}

func TestMerge_BoolOr(t *testing.T) {
	result := Merge(&Config{AllowUnsafePaths: true}, &Config{})
	if !result.AllowUnsafePaths {
		t.Error("AllowUnsafePaths = false, want true (base)")
	}
}
