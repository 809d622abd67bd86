package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/spacemark/pkg/annotate"
	"github.com/matzehuels/spacemark/pkg/errors"
	"github.com/matzehuels/spacemark/pkg/pipeline"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadMissingDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Loader{EnvFile: filepath.Join(t.TempDir(), ".env"), LookupEnv: noEnv}.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Loader{Path: filepath.Join(t.TempDir(), "nope.toml"), LookupEnv: noEnv}.Load()
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `
formats = ["svg", "png"]
scale = 3
concurrency = 4

[colors]
fixed = "#112233"

[cache]
backend = "redis"
redis_addr = "localhost:6379"
redis_db = 2

[server]
addr = ":9000"
`)
	cfg, err := Loader{Path: path, EnvFile: filepath.Join(dir, ".env"), LookupEnv: noEnv}.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Default()
	want.Formats = []string{"svg", "png"}
	want.Scale = 3
	want.Concurrency = 4
	want.Colors.Fixed = "#112233"
	want.Cache.Backend = CacheRedis
	want.Cache.RedisAddr = "localhost:6379"
	want.Cache.RedisDB = 2
	want.Server.Addr = ":9000"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadUserConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, "scale = 3\n")
	writeFile(t, filepath.Join(dir, UserConfigName), "{\n  \"fixedColor\": \"#ABC\",\n  \"showLayers\": true\n}\n")

	cfg, err := Loader{Path: path, EnvFile: filepath.Join(dir, ".env"), LookupEnv: noEnv}.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Colors.Fixed != "#ABC" {
		t.Errorf("Colors.Fixed = %q, want #ABC", cfg.Colors.Fixed)
	}
	if cfg.Colors.Dynamic != annotate.DynamicColor {
		t.Errorf("Colors.Dynamic = %q, want default", cfg.Colors.Dynamic)
	}
	if !cfg.ShowLayers {
		t.Error("ShowLayers = false, want true")
	}
	if cfg.Scale != 3 {
		t.Errorf("Scale = %g, want 3", cfg.Scale)
	}
}

func TestParseUserConfig(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"empty object", `{}`, false},
		{"colors", `{"fixedColor":"#FF5544","dynamicColor":"#0AF"}`, false},
		{"unknown keys kept", `{"theme":"dark"}`, false},
		{"bad color", `{"fixedColor":"red"}`, true},
		{"bad format", `{"formats":["gif"]}`, true},
		{"zero scale", `{"scale":0}`, true},
		{"not json", `{fixedColor}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUserConfig([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseUserConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %s, want INVALID_CONFIG", errors.GetCode(err))
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	env := envMap(map[string]string{
		"SPACEMARK_FORMATS":       "svg,pdf",
		"SPACEMARK_SCALE":         "1.5",
		"SPACEMARK_DYNAMIC_COLOR": "#00FF00",
		"SPACEMARK_CACHE":         "none",
		"SPACEMARK_ADDR":          ":8080",
		"SPACEMARK_CONCURRENCY":   "8",
	})
	cfg, err := Loader{Path: "", EnvFile: filepath.Join(dir, ".env"), LookupEnv: env}.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff([]string{"svg", "pdf"}, cfg.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}
	if cfg.Scale != 1.5 || cfg.Colors.Dynamic != "#00FF00" || cfg.Cache.Backend != CacheNone ||
		cfg.Server.Addr != ":8080" || cfg.Concurrency != 8 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestEnvFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	writeFile(t, envFile, "SPACEMARK_TEST_ENV_FILE=#123456\n")
	t.Cleanup(func() { os.Unsetenv("SPACEMARK_TEST_ENV_FILE") })

	_, err := Loader{Path: "", EnvFile: envFile, LookupEnv: noEnv}.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := os.Getenv("SPACEMARK_TEST_ENV_FILE"); got != "#123456" {
		t.Errorf("env file not loaded, got %q", got)
	}
}

func TestEnvBadNumber(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	_, err := Loader{EnvFile: filepath.Join(t.TempDir(), ".env"), LookupEnv: envMap(map[string]string{"SPACEMARK_SCALE": "big"})}.Load()
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad color", func(c *Config) { c.Colors.Fixed = "FF5544" }},
		{"bad format", func(c *Config) { c.Formats = []string{"gif"} }},
		{"zero scale", func(c *Config) { c.Scale = 0 }},
		{"negative concurrency", func(c *Config) { c.Concurrency = -1 }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestApply(t *testing.T) {
	cfg := Default()
	cfg.Formats = []string{"svg"}
	cfg.Scale = 3
	cfg.ShowLayers = true

	opts := pipeline.Options{Command: "All Fixed", Palette: annotate.Palette{Fixed: "#000"}}
	cfg.Apply(&opts)

	if diff := cmp.Diff([]string{"svg"}, opts.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}
	if opts.Scale != 3 || !opts.ShowLayers {
		t.Errorf("Apply() = %+v", opts)
	}
	if opts.Palette.Fixed != "#000" || opts.Palette.Dynamic != annotate.DynamicColor {
		t.Errorf("Palette = %+v", opts.Palette)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", FileName)
	want := Default()
	want.Scale = 4
	if err := want.Write(path); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	got, err := Loader{Path: path, EnvFile: filepath.Join(t.TempDir(), ".env"), LookupEnv: noEnv}.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdgc")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdgk")
	if d, _ := Dir(); d != "/tmp/xdgc/spacemark" {
		t.Errorf("Dir() = %q", d)
	}
	if d, _ := CacheDir(); d != "/tmp/xdgk/spacemark" {
		t.Errorf("CacheDir() = %q", d)
	}
}

func TestUserSchemaCompiledOnce(t *testing.T) {
	first, err := compiledUserSchema()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for range 3 {
		if _, err := ParseUserConfig([]byte(`{"scale": 3}`)); err != nil {
			t.Fatalf("ParseUserConfig: %v", err)
		}
	}
	second, err := compiledUserSchema()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if first != second {
		t.Error("schema should be compiled once and reused")
	}
}
