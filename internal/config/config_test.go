package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Format != "text" {
		t.Errorf("Default format = %q, want %q", cfg.Format, "text")
	}
	if cfg.Cache.DefaultTTLSeconds != 3600 {
		t.Errorf("Default defaultTtlSeconds = %d, want 3600", cfg.Cache.DefaultTTLSeconds)
	}
	if cfg.Cache.Dir != "" {
		t.Errorf("Default dir = %q, want empty", cfg.Cache.Dir)
	}
	if cfg.Cache.ClearRandomly || cfg.Cache.NeverClearAll || cfg.Cache.DeleteExpiredOnRead {
		t.Error("Default boolean options should all be false")
	}
}

func TestCacheConfig_Options(t *testing.T) {
	cc := CacheConfig{
		Dir:                 "/tmp/kv",
		DefaultTTLSeconds:   -1,
		ClearRandomly:       true,
		NeverClearAll:       true,
		DeleteExpiredOnRead: true,
	}
	o := cc.Options()
	if o.Dir != "/tmp/kv" || o.DefaultTTL != -1 {
		t.Errorf("Options = %+v", o)
	}
	if !o.ClearRandomly || !o.NeverClearAll || !o.DeleteExpiredOnRead {
		t.Errorf("Options booleans = %+v, want all true", o)
	}
}

func TestMergeEnv(t *testing.T) {
	t.Setenv("KVCACHE_DIR", "/tmp/env-cache")
	t.Setenv("KVCACHE_DEFAULT_TTL", "-1")
	t.Setenv("KVCACHE_CLEAR_RANDOMLY", "true")
	t.Setenv("KVCACHE_NEVER_CLEAR_ALL", "1")
	t.Setenv("KVCACHE_DELETE_EXPIRED_ON_READ", "true")
	t.Setenv("KVCACHE_FORMAT", "json")

	cfg := Default()
	if err := mergeEnv(&cfg); err != nil {
		t.Fatalf("mergeEnv error: %v", err)
	}

	if cfg.Cache.Dir != "/tmp/env-cache" {
		t.Errorf("Dir = %q, want %q", cfg.Cache.Dir, "/tmp/env-cache")
	}
	if cfg.Cache.DefaultTTLSeconds != -1 {
		t.Errorf("DefaultTTLSeconds = %d, want -1", cfg.Cache.DefaultTTLSeconds)
	}
	if !cfg.Cache.ClearRandomly || !cfg.Cache.NeverClearAll || !cfg.Cache.DeleteExpiredOnRead {
		t.Errorf("booleans = %+v, want all true", cfg.Cache)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want %q", cfg.Format, "json")
	}
}

func TestMergeEnv_Unset(t *testing.T) {
	cfg := Default()
	cfg.Cache.ClearRandomly = true
	if err := mergeEnv(&cfg); err != nil {
		t.Fatalf("mergeEnv error: %v", err)
	}
	if !cfg.Cache.ClearRandomly {
		t.Error("unset env var should not reset ClearRandomly")
	}
	if cfg.Cache.DefaultTTLSeconds != 3600 {
		t.Errorf("DefaultTTLSeconds = %d, want 3600", cfg.Cache.DefaultTTLSeconds)
	}
}

func TestMergeEnv_InvalidTTL(t *testing.T) {
	t.Setenv("KVCACHE_DEFAULT_TTL", "notanumber")

	cfg := Default()
	if err := mergeEnv(&cfg); err == nil {
		t.Error("Expected error for invalid KVCACHE_DEFAULT_TTL")
	}
}

func TestMergeEnv_ZeroTTL(t *testing.T) {
	t.Setenv("KVCACHE_DEFAULT_TTL", "0")

	cfg := Default()
	if err := mergeEnv(&cfg); err == nil {
		t.Error("Expected error for KVCACHE_DEFAULT_TTL=0")
	}
	if cfg.Cache.DefaultTTLSeconds != 3600 {
		t.Errorf("DefaultTTLSeconds = %d, want 3600", cfg.Cache.DefaultTTLSeconds)
	}
}

func TestMergeEnv_InvalidBool(t *testing.T) {
	t.Setenv("KVCACHE_NEVER_CLEAR_ALL", "maybe")

	cfg := Default()
	if err := mergeEnv(&cfg); err == nil {
		t.Error("Expected error for invalid KVCACHE_NEVER_CLEAR_ALL")
	}
}

func TestMergeOverrides(t *testing.T) {
	cfg := Default()
	overrides := map[string]string{
		"dir":               "/tmp/flag-cache",
		"defaultTtlSeconds": "60",
		"format":            "json",
		"clearRandomly":     "true",
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}

	if cfg.Cache.Dir != "/tmp/flag-cache" {
		t.Errorf("Dir = %q, want %q", cfg.Cache.Dir, "/tmp/flag-cache")
	}
	if cfg.Cache.DefaultTTLSeconds != 60 {
		t.Errorf("DefaultTTLSeconds = %d, want 60", cfg.Cache.DefaultTTLSeconds)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want %q", cfg.Format, "json")
	}
	if !cfg.Cache.ClearRandomly {
		t.Error("ClearRandomly should be true")
	}
}

func TestMergeOverrides_Nil(t *testing.T) {
	cfg := Default()
	if err := mergeOverrides(&cfg, nil); err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("config changed with nil overrides: %+v", cfg)
	}
}

func TestMergeOverrides_EmptyValuesSkipped(t *testing.T) {
	cfg := Default()
	if err := mergeOverrides(&cfg, map[string]string{"dir": "", "format": ""}); err != nil {
		t.Fatalf("mergeOverrides error: %v", err)
	}
	if cfg.Format != "text" {
		t.Errorf("Format = %q, want %q", cfg.Format, "text")
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()

	tests := []struct {
		key   string
		value string
	}{
		{"format", "json"},
		{"format", "markdown"},
		{"dir", "/var/cache/kv"},
		{"defaultTtlSeconds", "-1"},
		{"clearRandomly", "true"},
		{"neverClearAll", "true"},
		{"deleteExpiredOnRead", "false"},
	}

	for _, tt := range tests {
		if err := SetField(&cfg, tt.key, tt.value); err != nil {
			t.Errorf("SetField(%q, %q) error: %v", tt.key, tt.value, err)
		}
	}

	if cfg.Cache.Dir != "/var/cache/kv" {
		t.Errorf("Dir = %q, want %q", cfg.Cache.Dir, "/var/cache/kv")
	}
	if cfg.Cache.DefaultTTLSeconds != -1 {
		t.Errorf("DefaultTTLSeconds = %d, want -1", cfg.Cache.DefaultTTLSeconds)
	}
	if !cfg.Cache.ClearRandomly || !cfg.Cache.NeverClearAll || cfg.Cache.DeleteExpiredOnRead {
		t.Errorf("booleans = %+v", cfg.Cache)
	}
}

func TestSetField_Errors(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"nonexistent", "value"},
		{"defaultTtlSeconds", "notanumber"},
		{"defaultTtlSeconds", "0"},
		{"defaultTtlSeconds", "-5"},
		{"clearRandomly", "sometimes"},
		{"format", "sarif"},
	}
	for _, tt := range tests {
		cfg := Default()
		if err := SetField(&cfg, tt.key, tt.value); err == nil {
			t.Errorf("SetField(%q, %q) expected error", tt.key, tt.value)
		}
	}
}

func TestSetField_AllKeysAccepted(t *testing.T) {
	values := map[string]string{
		"format":              "text",
		"dir":                 "/x",
		"defaultTtlSeconds":   "1",
		"clearRandomly":       "false",
		"neverClearAll":       "false",
		"deleteExpiredOnRead": "false",
	}
	for _, key := range Keys {
		cfg := Default()
		if err := SetField(&cfg, key, values[key]); err != nil {
			t.Errorf("SetField(%q) error: %v", key, err)
		}
	}
}

func TestMergeFile_BoolFields_EmptyFile(t *testing.T) {
	dst := Default()
	dst.Cache.ClearRandomly = true
	mergeFile(&dst, Config{})

	if !dst.Cache.ClearRandomly {
		t.Error("ClearRandomly should remain true when file is empty")
	}
	if dst.Cache.DefaultTTLSeconds != 3600 {
		t.Errorf("DefaultTTLSeconds = %d, want 3600", dst.Cache.DefaultTTLSeconds)
	}
}

func TestMergeFile_AllFields(t *testing.T) {
	dst := Default()
	src := Config{
		Format: "json",
		Cache: CacheConfig{
			Dir:                 "/tmp/cache",
			DefaultTTLSeconds:   -1,
			ClearRandomly:       true,
			NeverClearAll:       true,
			DeleteExpiredOnRead: true,
		},
	}
	mergeFile(&dst, src)

	if dst != src {
		t.Errorf("mergeFile = %+v, want %+v", dst, src)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg-test/kvcache" {
		t.Errorf("ConfigDir = %q, want %q", dir, "/tmp/xdg-test/kvcache")
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath error: %v", err)
	}
	if path != "/tmp/xdg-test/kvcache/config.json" {
		t.Errorf("ConfigPath = %q, want %q", path, "/tmp/xdg-test/kvcache/config.json")
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Cache.Dir = "/tmp/saved"
	cfg.Cache.DefaultTTLSeconds = 120
	cfg.Cache.NeverClearAll = true

	if err := Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded != cfg {
		t.Errorf("LoadFile = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadFile_NoFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	// Should return zero config, not defaults
	if cfg != (Config{}) {
		t.Errorf("LoadFile with no file = %+v, want zero Config", cfg)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	if err := os.MkdirAll(filepath.Join(tmp, "kvcache"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "kvcache", "config.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(); err == nil {
		t.Error("Expected error for malformed config file")
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	fileCfg := Default()
	fileCfg.Cache.Dir = "/from/file"
	fileCfg.Cache.DefaultTTLSeconds = 10
	if err := Save(fileCfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	t.Setenv("KVCACHE_DEFAULT_TTL", "20")

	cfg, err := Load(map[string]string{"dir": "/from/flag"})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Cache.Dir != "/from/flag" {
		t.Errorf("Dir = %q, want %q", cfg.Cache.Dir, "/from/flag")
	}
	if cfg.Cache.DefaultTTLSeconds != 20 {
		t.Errorf("DefaultTTLSeconds = %d, want 20 (env)", cfg.Cache.DefaultTTLSeconds)
	}
	if cfg.Format != "text" {
		t.Errorf("Format = %q, want %q (default)", cfg.Format, "text")
	}
}

func TestLoad_BadOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, err := Load(map[string]string{"defaultTtlSeconds": "soon"}); err == nil {
		t.Error("Expected error for invalid override")
	}
}
