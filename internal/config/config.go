// Package config provides persistent configuration for the imsakiye CLI and
// server.
//
// Configuration is stored as JSON at ~/.config/imsakiye/config.json
// (XDG-compliant). The merge priority is: CLI flags > environment > config
// file > defaults. Environment variables use the IMSAKIYE_ prefix and may be
// supplied through a .env file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/smokyabdulrahman/imsakiye/internal/cache"
	"github.com/smokyabdulrahman/imsakiye/internal/observance"
	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

const (
	configDirName  = "imsakiye"
	configFileName = "config.json"
	envPrefix      = "IMSAKIYE"

	// AutoCity as default_city selects the configured city nearest to the
	// caller's IP location.
	AutoCity = "auto"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"cities", "country", "default_city",
	"timezone", "method", "time_format",
	"window_start", "window_days", "window_months",
	"cache_backend", "cache_dir",
	"redis_addr", "redis_username", "redis_password",
	"http_addr",
	"mqtt_broker", "mqtt_topic",
	"log_level",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults).
type Config struct {
	Cities        string `json:"cities,omitempty"`  // "Name:Country,Name,..."
	Country       string `json:"country,omitempty"` // used for cities listed without a country
	DefaultCity   string `json:"default_city,omitempty"`
	Timezone      string `json:"timezone,omitempty"`
	Method        *int   `json:"method,omitempty"`      // pointer so we can distinguish "not set" from 0
	TimeFormat    string `json:"time_format,omitempty"` // "12h" or "24h"
	WindowStart   string `json:"window_start,omitempty"`
	WindowDays    int    `json:"window_days,omitempty"`
	WindowMonths  string `json:"window_months,omitempty"` // "2026-02,2026-03"
	CacheBackend  string `json:"cache_backend,omitempty"`
	CacheDir      string `json:"cache_dir,omitempty"`
	RedisAddr     string `json:"redis_addr,omitempty"`
	RedisUsername string `json:"redis_username,omitempty"`
	RedisPassword string `json:"redis_password,omitempty"`
	HTTPAddr      string `json:"http_addr,omitempty"`
	MQTTBroker    string `json:"mqtt_broker,omitempty"`
	MQTTTopic     string `json:"mqtt_topic,omitempty"`
	LogLevel      string `json:"log_level,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	method := 13
	return Config{
		Cities:       "Batman:Turkey,Kocaeli:Turkey,Kayseri:Turkey,Ankara:Turkey,Istanbul:Turkey",
		Country:      "Turkey",
		DefaultCity:  "Istanbul",
		Timezone:     "Europe/Istanbul",
		Method:       &method,
		TimeFormat:   "24h",
		WindowStart:  "2026-02-19",
		WindowDays:   observance.DefaultDays,
		WindowMonths: "2026-02,2026-03",
		CacheBackend: cache.BackendMemory,
		HTTPAddr:     ":8080",
		MQTTTopic:    "imsakiye/alerts",
		LogLevel:     "info",
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// LoadDotEnv loads .env files into the process environment. Missing files
// are ignored; variables already set win.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// envOverrides mirrors the settable keys as IMSAKIYE_* variables.
type envOverrides struct {
	Cities        string `envconfig:"CITIES"`
	Country       string `envconfig:"COUNTRY"`
	DefaultCity   string `envconfig:"DEFAULT_CITY"`
	Timezone      string `envconfig:"TIMEZONE"`
	Method        string `envconfig:"METHOD"`
	TimeFormat    string `envconfig:"TIME_FORMAT"`
	WindowStart   string `envconfig:"WINDOW_START"`
	WindowDays    string `envconfig:"WINDOW_DAYS"`
	WindowMonths  string `envconfig:"WINDOW_MONTHS"`
	CacheBackend  string `envconfig:"CACHE_BACKEND"`
	CacheDir      string `envconfig:"CACHE_DIR"`
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	HTTPAddr      string `envconfig:"HTTP_ADDR"`
	MQTTBroker    string `envconfig:"MQTT_BROKER"`
	MQTTTopic     string `envconfig:"MQTT_TOPIC"`
	LogLevel      string `envconfig:"LOG_LEVEL"`
}

func (e envOverrides) values() map[string]string {
	return map[string]string{
		"cities": e.Cities, "country": e.Country, "default_city": e.DefaultCity,
		"timezone": e.Timezone, "method": e.Method, "time_format": e.TimeFormat,
		"window_start": e.WindowStart, "window_days": e.WindowDays, "window_months": e.WindowMonths,
		"cache_backend": e.CacheBackend, "cache_dir": e.CacheDir,
		"redis_addr": e.RedisAddr, "redis_username": e.RedisUsername, "redis_password": e.RedisPassword,
		"http_addr":   e.HTTPAddr,
		"mqtt_broker": e.MQTTBroker, "mqtt_topic": e.MQTTTopic,
		"log_level": e.LogLevel,
	}
}

// ApplyEnv overlays IMSAKIYE_* environment variables onto c.
func (c *Config) ApplyEnv() error {
	var e envOverrides
	if err := envconfig.Process(envPrefix, &e); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return c.overlay(e.values())
}

// Overlay copies every key set in o onto c.
func (c *Config) Overlay(o *Config) error {
	if o == nil {
		return nil
	}
	vals := make(map[string]string, len(ValidKeys))
	for _, k := range ValidKeys {
		vals[k], _ = o.Get(k)
	}
	return c.overlay(vals)
}

func (c *Config) overlay(vals map[string]string) error {
	for _, k := range ValidKeys {
		if v := vals[k]; v != "" {
			if err := c.Set(k, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Resolve builds the effective config from defaults, the saved file and the
// environment. file may be nil.
func Resolve(file *Config) (Config, error) {
	cfg := Defaults()
	if err := cfg.Overlay(file); err != nil {
		return Config{}, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "cities":
		// Countries are filled in later from the country key.
		if _, err := prayer.ParseCities(value, "?"); err != nil {
			return fmt.Errorf("invalid cities %q: %w", value, err)
		}
		c.Cities = value
	case "country":
		c.Country = value
	case "default_city":
		c.DefaultCity = value
	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", value, err)
		}
		c.Timezone = value
	case "method":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid method %q: must be an integer", value)
		}
		if v < 0 || v > 23 {
			return fmt.Errorf("invalid method %q: must be between 0 and 23", value)
		}
		c.Method = &v
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "window_start":
		if _, err := prayer.ParseISODate(value); err != nil {
			return fmt.Errorf("invalid window_start: %w", err)
		}
		c.WindowStart = value
	case "window_days":
		v, err := strconv.Atoi(value)
		if err != nil || v < 1 {
			return fmt.Errorf("invalid window_days %q: must be a positive integer", value)
		}
		c.WindowDays = v
	case "window_months":
		if _, err := parseMonths(value); err != nil {
			return fmt.Errorf("invalid window_months %q: %w", value, err)
		}
		c.WindowMonths = value
	case "cache_backend":
		switch value {
		case cache.BackendMemory, cache.BackendFile, cache.BackendRedis, cache.BackendNone:
		default:
			return fmt.Errorf("invalid cache_backend %q: must be memory, file, redis or none", value)
		}
		c.CacheBackend = value
	case "cache_dir":
		c.CacheDir = value
	case "redis_addr":
		c.RedisAddr = value
	case "redis_username":
		c.RedisUsername = value
	case "redis_password":
		c.RedisPassword = value
	case "http_addr":
		c.HTTPAddr = value
	case "mqtt_broker":
		c.MQTTBroker = value
	case "mqtt_topic":
		c.MQTTTopic = value
	case "log_level":
		switch value {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("invalid log_level %q: must be debug, info, warn or error", value)
		}
		c.LogLevel = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "cities":
		return c.Cities, nil
	case "country":
		return c.Country, nil
	case "default_city":
		return c.DefaultCity, nil
	case "timezone":
		return c.Timezone, nil
	case "method":
		if c.Method == nil {
			return "", nil
		}
		return strconv.Itoa(*c.Method), nil
	case "time_format":
		return c.TimeFormat, nil
	case "window_start":
		return c.WindowStart, nil
	case "window_days":
		if c.WindowDays == 0 {
			return "", nil
		}
		return strconv.Itoa(c.WindowDays), nil
	case "window_months":
		return c.WindowMonths, nil
	case "cache_backend":
		return c.CacheBackend, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "redis_addr":
		return c.RedisAddr, nil
	case "redis_username":
		return c.RedisUsername, nil
	case "redis_password":
		return c.RedisPassword, nil
	case "http_addr":
		return c.HTTPAddr, nil
	case "mqtt_broker":
		return c.MQTTBroker, nil
	case "mqtt_topic":
		return c.MQTTTopic, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// MethodOrDefault returns the method value, falling back to the given default.
func (c *Config) MethodOrDefault(def int) int {
	if c.Method != nil {
		return *c.Method
	}
	return def
}

// GoTimeFormat returns the Go layout for TimeFormat.
func (c *Config) GoTimeFormat() string {
	if c.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

// CityList parses Cities, filling missing countries from Country.
func (c *Config) CityList() ([]prayer.City, error) {
	return prayer.ParseCities(c.Cities, c.Country)
}

// Location loads Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Window builds the observance window.
func (c *Config) Window() (observance.Window, error) {
	start, err := prayer.ParseISODate(c.WindowStart)
	if err != nil {
		return observance.Window{}, fmt.Errorf("invalid window_start: %w", err)
	}
	months, err := parseMonths(c.WindowMonths)
	if err != nil {
		return observance.Window{}, fmt.Errorf("invalid window_months: %w", err)
	}
	return observance.Window{Start: start, Days: c.WindowDays, Months: months}, nil
}

// CacheOptions returns the cache backend settings.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:       c.CacheBackend,
		Dir:           c.CacheDir,
		RedisAddr:     c.RedisAddr,
		RedisUsername: c.RedisUsername,
		RedisPassword: c.RedisPassword,
	}
}

// Validate checks the effective config as a whole.
func (c *Config) Validate() error {
	cities, err := c.CityList()
	if err != nil {
		return err
	}
	for i := range cities {
		for j := i + 1; j < len(cities); j++ {
			if prayer.SameName(cities[i].Name, cities[j].Name) {
				return fmt.Errorf("city %q is listed twice", cities[i].Name)
			}
		}
	}

	if c.DefaultCity != "" && c.DefaultCity != AutoCity {
		if _, ok := prayer.FindCity(cities, c.DefaultCity); !ok {
			return fmt.Errorf("default_city %q is not in cities", c.DefaultCity)
		}
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	w, err := c.Window()
	if err != nil {
		return err
	}
	if err := w.Validate(); err != nil {
		return fmt.Errorf("invalid observance window: %w", err)
	}

	if c.CacheBackend == cache.BackendRedis && c.RedisAddr == "" {
		return errors.New("cache_backend redis requires redis_addr")
	}
	return nil
}

func parseMonths(s string) ([]prayer.YearMonth, error) {
	var out []prayer.YearMonth
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ym, err := prayer.ParseYearMonth(part)
		if err != nil {
			return nil, err
		}
		out = append(out, ym)
	}
	if len(out) == 0 {
		return nil, errors.New("no months given")
	}
	return out, nil
}
