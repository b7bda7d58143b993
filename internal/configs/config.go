package configs

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PolarWolf314/ghsecrets/internal/ghapi"
)

const (
	DefaultConcurrency       = 4
	DefaultRequestsPerSecond = 10.0
)

// Config is the user configuration stored in config.toml.
type Config struct {
	APIURL            string  `toml:"api_url,omitempty"`
	DefaultRepo       string  `toml:"default_repo,omitempty"`
	Concurrency       int     `toml:"concurrency,omitempty"`
	RequestsPerSecond float64 `toml:"requests_per_second,omitempty"`
	Timeout           string  `toml:"timeout,omitempty"`
}

// Keys lists the settable configuration keys.
var Keys = []string{"api_url", "default_repo", "concurrency", "requests_per_second", "timeout"}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		APIURL:            ghapi.DefaultBaseURL,
		Concurrency:       DefaultConcurrency,
		RequestsPerSecond: DefaultRequestsPerSecond,
		Timeout:           ghapi.DefaultTimeout.String(),
	}
}

// LoadUserConfig loads config.toml as written, without defaults or
// environment overrides. A missing file yields an empty Config.
func LoadUserConfig() (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(ConfigPath()); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(ConfigPath(), config); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	return config, nil
}

// SaveUserConfig saves config to config.toml.
func SaveUserConfig(config *Config) error {
	if err := SaveTOML(ConfigPath(), config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}
	return nil
}

// Load returns the effective configuration: defaults, overlaid by
// config.toml, overlaid by environment variables.
func Load() (*Config, error) {
	file, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	config.merge(file)

	if v := os.Getenv("GHSECRETS_API_URL"); v != "" {
		config.APIURL = v
	}
	if v := os.Getenv("GHSECRETS_REPO"); v != "" {
		config.DefaultRepo = v
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) merge(other *Config) {
	if other.APIURL != "" {
		c.APIURL = other.APIURL
	}
	if other.DefaultRepo != "" {
		c.DefaultRepo = other.DefaultRepo
	}
	if other.Concurrency != 0 {
		c.Concurrency = other.Concurrency
	}
	if other.RequestsPerSecond != 0 {
		c.RequestsPerSecond = other.RequestsPerSecond
	}
	if other.Timeout != "" {
		c.Timeout = other.Timeout
	}
}

// Validate checks every field that is set.
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("timeout %q: %w", c.Timeout, err)
		}
	}
	if c.DefaultRepo != "" {
		if _, err := ghapi.ParseRepositoryRef(c.DefaultRepo); err != nil {
			return err
		}
	}
	if c.APIURL != "" {
		if _, err := ghapi.NewClient(ghapi.Options{BaseURL: c.APIURL}); err != nil {
			return err
		}
	}
	return nil
}

// TimeoutDuration returns the request timeout.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || c.Timeout == "" {
		return ghapi.DefaultTimeout
	}
	return d
}

// Set assigns value to key, validating it.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case "api_url":
		c.APIURL = value
	case "default_repo":
		c.DefaultRepo = value
	case "concurrency":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("concurrency must be a positive integer, got %q", value)
		}
		c.Concurrency = n
	case "requests_per_second":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("requests_per_second must be a number, got %q", value)
		}
		c.RequestsPerSecond = f
	case "timeout":
		c.Timeout = value
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}

	return c.Validate()
}

// Values returns the configuration as sorted key/value pairs for display.
func (c *Config) Values() [][2]string {
	values := map[string]string{
		"api_url":             c.APIURL,
		"default_repo":        c.DefaultRepo,
		"concurrency":         strconv.Itoa(c.Concurrency),
		"requests_per_second": strconv.FormatFloat(c.RequestsPerSecond, 'g', -1, 64),
		"timeout":             c.Timeout,
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([][2]string, len(keys))
	for i, k := range keys {
		out[i] = [2]string{k, values[k]}
	}
	return out
}
