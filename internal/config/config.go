// Package config loads the CLI configuration file stored at
// ~/.social-go/config.yaml and applies environment overrides.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultConfigDir is the directory under the user's home for CLI state.
const DefaultConfigDir = ".social-go"

// DefaultConfigFile is the config file name within the config directory.
const DefaultConfigFile = "config.yaml"

// Environment variables that override the file.
const (
	EnvFacebookToken = "FACEBOOK_ACCESS_TOKEN"
	EnvLinkedInToken = "LINKEDIN_ACCESS_TOKEN"
	EnvUserAgent     = "SOCIAL_USER_AGENT"
)

// API holds per-API settings.
type API struct {
	AccessToken string `yaml:"access_token,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
}

// Config represents the contents of the config file.
type Config struct {
	UserAgent string        `yaml:"user_agent,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
	Facebook  API           `yaml:"facebook"`
	LinkedIn  API           `yaml:"linkedin"`
}

// DefaultPath returns ~/.social-go/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "determining home directory")
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
}

// Load reads the config at path, or at DefaultPath when path is empty, and
// applies environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing config %s", path)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	applyEnv(cfg)
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultConfig().Timeout
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{Timeout: 30 * time.Second}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvFacebookToken); v != "" {
		cfg.Facebook.AccessToken = v
	}
	if v := os.Getenv(EnvLinkedInToken); v != "" {
		cfg.LinkedIn.AccessToken = v
	}
	if v := os.Getenv(EnvUserAgent); v != "" {
		cfg.UserAgent = v
	}
}
