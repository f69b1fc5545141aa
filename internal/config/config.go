package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"course_find/internal/search"
	"course_find/internal/textsearch"
)

//go:embed config.toml.sample
var configTemplate string

const (
	DefaultContextLength = 5
	DefaultBookURL       = "file://{path}#page={page}"
	DefaultMaxFileBytes  = 20 * 1024 * 1024
)

type Config struct {
	Roots         []string `toml:"roots"`
	ContextLength int      `toml:"context_length"`
	Workers       int      `toml:"workers"`
	Granularity   string   `toml:"granularity"`
	CaseFolding   string   `toml:"case_folding"`
	Highlight     bool     `toml:"highlight"`
	CacheDir      string   `toml:"cache_dir"`
	BookURL       string   `toml:"book_url"`
	MaxFileBytes  int64    `toml:"max_file_bytes"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cacheDir, _ := DefaultCacheDir()
	return &Config{
		Roots:         []string{},
		ContextLength: DefaultContextLength,
		Granularity:   search.GranularityPage,
		CaseFolding:   textsearch.FoldSimple.String(),
		CacheDir:      cacheDir,
		BookURL:       DefaultBookURL,
		MaxFileBytes:  DefaultMaxFileBytes,
	}
}

// LoadConfig reads configPath on top of the defaults. A missing file is not
// an error.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Validate normalizes the config in place and rejects unknown values.
func (c *Config) Validate() error {
	if c.ContextLength < 0 {
		c.ContextLength = 0
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
	c.Granularity = strings.ToLower(strings.TrimSpace(c.Granularity))
	switch c.Granularity {
	case "":
		c.Granularity = search.GranularityPage
	case search.GranularityPage, search.GranularityLine:
	default:
		return fmt.Errorf("未知的 granularity: %q", c.Granularity)
	}
	if _, err := c.Folding(); err != nil {
		return err
	}
	if strings.TrimSpace(c.BookURL) == "" {
		c.BookURL = DefaultBookURL
	}
	if c.MaxFileBytes <= 0 {
		c.MaxFileBytes = DefaultMaxFileBytes
	}
	return nil
}

// Folding returns the parsed case_folding value.
func (c *Config) Folding() (textsearch.Folding, error) {
	return textsearch.ParseFolding(c.CaseFolding)
}

// SaveTemplateConfig writes the commented sample config, with the real cache
// directory filled in.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	tpl := strings.Replace(configTemplate, "/home/user/.cache/cfind", filepath.ToSlash(c.CacheDir), 1)
	return os.WriteFile(configPath, []byte(tpl), 0o644)
}

// GetConfigDir returns $XDG_CONFIG_HOME/cfind (or ~/.config/cfind).
func GetConfigDir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "cfind"), nil
}

// GetDefaultConfigPath returns the config.toml inside GetConfigDir.
func GetDefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultCacheDir returns the per-user cache directory for extracted text.
func DefaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("getting user cache directory: %w", err)
	}
	return filepath.Join(dir, "cfind"), nil
}
