package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

// tempConfigPath returns a path to a config file inside a temp directory.
func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

// clearEnv blanks every IMSAKIYE_* override for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range ValidKeys {
		t.Setenv("IMSAKIYE_"+strings.ToUpper(k), "")
	}
}

// --- Defaults ---

func TestDefaults(t *testing.T) {
	d := Defaults()

	if d.MethodOrDefault(-1) != 13 {
		t.Errorf("Defaults() method = %d, want 13", d.MethodOrDefault(-1))
	}
	if d.DefaultCity != "Istanbul" {
		t.Errorf("Defaults().DefaultCity = %q, want Istanbul", d.DefaultCity)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Defaults() does not validate: %v", err)
	}

	cities, err := d.CityList()
	if err != nil {
		t.Fatalf("CityList() error: %v", err)
	}
	names := make([]string, len(cities))
	for i, c := range cities {
		names[i] = c.Name
	}
	want := "Batman,Kocaeli,Kayseri,Ankara,Istanbul"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("default cities = %q, want %q", got, want)
	}

	w, err := d.Window()
	if err != nil {
		t.Fatalf("Window() error: %v", err)
	}
	if w.Days != 30 || w.Start != (prayer.Date{Year: 2026, Month: time.February, Day: 19}) {
		t.Errorf("default window = %+v", w)
	}
	if len(w.Months) != 2 || w.Months[1] != (prayer.YearMonth{Year: 2026, Month: time.March}) {
		t.Errorf("default window months = %v", w.Months)
	}
}

// --- Dir and Path with XDG ---

func TestDir_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	want := filepath.Join("/tmp/xdg-test", "imsakiye")
	if dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestPath_FallbackToHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	p, err := Path()
	if err != nil {
		t.Fatalf("Path() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".config", "imsakiye", "config.json")
	if p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}
}

// --- LoadFrom / SaveTo / ResetAt ---

func TestLoadFrom_NonExistentFile(t *testing.T) {
	cfg, err := LoadFrom("/no/such/file.json")
	if err != nil {
		t.Fatalf("LoadFrom non-existent should not error, got: %v", err)
	}
	if cfg.Cities != "" || cfg.Method != nil {
		t.Error("LoadFrom non-existent should return empty config")
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := tempConfigPath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	method := 0
	orig := &Config{
		Cities:      "Izmir:Turkey",
		DefaultCity: "Izmir",
		Method:      &method,
		TimeFormat:  "12h",
	}
	if err := orig.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("config file should end with a newline")
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if got.Cities != orig.Cities || got.DefaultCity != orig.DefaultCity || got.TimeFormat != "12h" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Method == nil || *got.Method != 0 {
		t.Error("method 0 should survive a round trip")
	}
}

func TestResetAt(t *testing.T) {
	path := tempConfigPath(t)
	if err := (&Config{Cities: "Ankara"}).SaveTo(path); err != nil {
		t.Fatal(err)
	}
	if err := ResetAt(path); err != nil {
		t.Fatalf("ResetAt error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("config file still exists after reset")
	}
	if err := ResetAt(path); err != nil {
		t.Errorf("ResetAt on missing file should not error, got: %v", err)
	}
}

// --- Set / Get ---

func TestSet_Valid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"cities", "Izmir:Turkey,Bursa"},
		{"country", "Turkey"},
		{"default_city", "auto"},
		{"timezone", "Europe/Berlin"},
		{"method", "0"},
		{"time_format", "12h"},
		{"window_start", "2027-02-08"},
		{"window_days", "29"},
		{"window_months", "2027-02,2027-03"},
		{"cache_backend", "redis"},
		{"cache_dir", "/tmp/imsakiye"},
		{"redis_addr", "localhost:6379"},
		{"http_addr", ":9090"},
		{"mqtt_broker", "tcp://localhost:1883"},
		{"mqtt_topic", "ramazan/alerts"},
		{"log_level", "debug"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var c Config
			if err := c.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set(%q, %q) error: %v", tt.key, tt.value, err)
			}
			got, err := c.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.key, err)
			}
			if got != tt.value {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.value)
			}
		})
	}
}

func TestSet_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"cities", ":Turkey"},
		{"timezone", "Mars/Olympus"},
		{"method", "abc"},
		{"method", "99"},
		{"time_format", "25h"},
		{"window_start", "19-02-2026"},
		{"window_days", "0"},
		{"window_months", "February"},
		{"cache_backend", "memcached"},
		{"log_level", "verbose"},
		{"latitude", "41.0"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			var c Config
			if err := c.Set(tt.key, tt.value); err == nil {
				t.Errorf("Set(%q, %q) should fail", tt.key, tt.value)
			}
		})
	}
}

func TestGet_UnknownKey(t *testing.T) {
	var c Config
	if _, err := c.Get("school"); err == nil {
		t.Error("expected error for unknown key")
	}
}

// --- Resolve ---

func TestResolve_FileThenEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("IMSAKIYE_DEFAULT_CITY", "Ankara")
	t.Setenv("IMSAKIYE_LOG_LEVEL", "warn")

	file := &Config{DefaultCity: "Kayseri", TimeFormat: "12h"}
	cfg, err := Resolve(file)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if cfg.DefaultCity != "Ankara" {
		t.Errorf("DefaultCity = %q, want env value Ankara", cfg.DefaultCity)
	}
	if cfg.TimeFormat != "12h" {
		t.Errorf("TimeFormat = %q, want file value 12h", cfg.TimeFormat)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.Timezone != "Europe/Istanbul" {
		t.Errorf("Timezone = %q, want default", cfg.Timezone)
	}
}

func TestResolve_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("IMSAKIYE_METHOD", "not-a-number")
	if _, err := Resolve(nil); err == nil {
		t.Error("expected error for invalid IMSAKIYE_METHOD")
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("IMSAKIYE_HTTP_ADDR")
	t.Cleanup(func() { os.Unsetenv("IMSAKIYE_HTTP_ADDR") })

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("IMSAKIYE_HTTP_ADDR=:7070\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if cfg.HTTPAddr != ":7070" {
		t.Errorf("HTTPAddr = %q, want :7070 from .env", cfg.HTTPAddr)
	}
}

// --- Validate ---

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"duplicate city", func(c *Config) { c.Cities = "Ankara:Turkey,ANKARA:Turkey" }},
		{"default city not listed", func(c *Config) { c.DefaultCity = "Izmir" }},
		{"window outside months", func(c *Config) { c.WindowMonths = "2026-03,2026-04" }},
		{"window too long", func(c *Config) { c.WindowDays = 60 }},
		{"redis without address", func(c *Config) { c.CacheBackend = "redis" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	c := Defaults()
	c.DefaultCity = AutoCity
	if err := c.Validate(); err != nil {
		t.Errorf("auto default city should validate, got: %v", err)
	}
}

func TestGoTimeFormat(t *testing.T) {
	c := Config{TimeFormat: "12h"}
	if c.GoTimeFormat() != "3:04 PM" {
		t.Errorf("GoTimeFormat(12h) = %q", c.GoTimeFormat())
	}
	c.TimeFormat = ""
	if c.GoTimeFormat() != "15:04" {
		t.Errorf("GoTimeFormat(default) = %q", c.GoTimeFormat())
	}
}
