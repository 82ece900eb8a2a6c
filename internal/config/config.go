package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix marks environment overrides, e.g. MOCKUPFINDER_BASE_URL -> base_url.
const EnvPrefix = "MOCKUPFINDER_"

// Mode selects which endpoint a submitted term goes to.
type Mode string

const (
	// ModeSearch queries the multi-result search endpoint.
	ModeSearch Mode = "search"
	// ModeLookup queries the exact reference lookup endpoint.
	ModeLookup Mode = "lookup"
)

type Config struct {
	BaseURL         string        `yaml:"base_url" koanf:"base_url"`
	SearchPath      string        `yaml:"search_path" koanf:"search_path"`
	LookupPath      string        `yaml:"lookup_path" koanf:"lookup_path"`
	Mode            Mode          `yaml:"mode" koanf:"mode"`
	APIToken        string        `yaml:"api_token,omitempty" koanf:"api_token"`
	UserAgent       string        `yaml:"user_agent" koanf:"user_agent"`
	Timeout         time.Duration `yaml:"timeout" koanf:"timeout"`
	DownloadDir     string        `yaml:"download_dir" koanf:"download_dir"`
	AutoSelectFirst bool          `yaml:"auto_select_first" koanf:"auto_select_first"`
	ScrollToViewer  bool          `yaml:"scroll_to_viewer" koanf:"scroll_to_viewer"`
	Preview         bool          `yaml:"preview" koanf:"preview"`
	PreviewWidth    int           `yaml:"preview_width" koanf:"preview_width"`
	LogFile         string        `yaml:"log_file,omitempty" koanf:"log_file"`
	LogLevel        string        `yaml:"log_level" koanf:"log_level"`
	Verbose         bool          `yaml:"verbose" koanf:"verbose"`

	// Path is the file the config was read from; not serialized.
	Path string `yaml:"-" koanf:"-"`
}

// Default returns the configuration used when no file or env override exists.
func Default() Config {
	return Config{
		BaseURL:         "http://localhost:5000",
		SearchPath:      "/api/find-fabrics",
		LookupPath:      "/api/get-all-info",
		Mode:            ModeSearch,
		UserAgent:       "mockupfinder/1.0",
		Timeout:         15 * time.Second,
		DownloadDir:     "downloads",
		AutoSelectFirst: true,
		ScrollToViewer:  true,
		Preview:         true,
		PreviewWidth:    48,
		LogLevel:        "info",
	}
}

// DefaultPath returns ~/.mockupfinder.yaml, or a relative name if HOME is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".mockupfinder.yaml"
	}
	return filepath.Join(home, ".mockupfinder.yaml")
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (MOCKUPFINDER_*). A missing file yields defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	cfg.Path = path
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return cfg, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.Path = path
	return cfg, nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || c.BaseURL == "" {
		return fmt.Errorf("base_url %q is not a valid URL", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url %q must use http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url %q has no host", c.BaseURL)
	}
	switch c.Mode {
	case ModeSearch, ModeLookup:
	default:
		return fmt.Errorf("invalid mode %q: must be one of search, lookup", c.Mode)
	}
	if strings.TrimSpace(c.SearchPath) == "" {
		return errors.New("search_path is required")
	}
	if strings.TrimSpace(c.LookupPath) == "" {
		return errors.New("lookup_path is required")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if strings.TrimSpace(c.DownloadDir) == "" {
		return errors.New("download_dir is required")
	}
	if c.PreviewWidth < 0 {
		return errors.New("preview_width must be non-negative")
	}
	return nil
}

// Redacted returns a copy safe for display.
func (c Config) Redacted() Config {
	if c.APIToken != "" {
		c.APIToken = "[REDACTED]"
	}
	return c
}
