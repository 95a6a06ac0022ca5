package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath overrides the default config file location.
	EnvConfigPath = "RTDB_CONFIG"
	// EnvBaseURL overrides the base URL of the selected profile.
	EnvBaseURL = "RTDB_URL"
)

// Config represents the top-level configuration file.
type Config struct {
	// Default names the profile used when none is selected
	Default string `json:"default,omitempty" yaml:"default,omitempty"`

	// Profiles defines target databases
	Profiles map[string]Profile `json:"profiles" yaml:"profiles" validate:"dive"`

	// path is the file the config was loaded from
	path string
}

// Profile describes one database and how to talk to it.
type Profile struct {
	BaseURL    string            `json:"baseUrl" yaml:"baseUrl" validate:"required,url,startswith=http"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Timeout    string            `json:"timeout,omitempty" yaml:"timeout,omitempty" validate:"omitempty,duration"`
	JSONSuffix bool              `json:"jsonSuffix,omitempty" yaml:"jsonSuffix,omitempty"`

	// Schemas maps locator patterns (path.Match syntax, relative to the
	// base URL) to JSON Schema files checked before every write
	Schemas map[string]string `json:"schemas,omitempty" yaml:"schemas,omitempty" validate:"dive,keys,required,endkeys,required"`
}

// TimeoutDuration returns the parsed timeout, or def when none is set.
func (p Profile) TimeoutDuration(def time.Duration) time.Duration {
	if p.Timeout == "" {
		return def
	}
	d, err := ParseDuration(p.Timeout)
	if err != nil {
		return def
	}
	return d
}

// LoadConfig loads and validates a configuration file. Files ending in .json
// are read as JSON, everything else as YAML.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &config)
	} else {
		err = yaml.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	config.path = path

	config.expand(envMap())

	if errs := ValidateConfig(&config); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config file %s: %w", path, ValidationErrors(errs))
	}

	return &config, nil
}

// DefaultPath returns $RTDB_CONFIG, or config.yaml in the user config dir.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rtdb", "config.yaml")
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// SchemaPath resolves a schema file relative to the config file.
func (c *Config) SchemaPath(file string) string {
	if filepath.IsAbs(file) || c.path == "" {
		return file
	}
	return filepath.Join(GetConfigDir(c.path), file)
}

func (c *Config) expand(env map[string]string) {
	for name, p := range c.Profiles {
		p.BaseURL = ProcessEnvironment(p.BaseURL, env)
		p.Headers = ProcessEnvironmentInMap(p.Headers, env)
		c.Profiles[name] = p
	}
}

func envMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// ProcessEnvironment replaces {{NAME}} placeholders with values from env.
// Unknown placeholders are left as they are.
func ProcessEnvironment(input string, env map[string]string) string {
	return placeholder.ReplaceAllStringFunc(input, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		if value, ok := env[name]; ok {
			return value
		}
		return m
	})
}

// ProcessEnvironmentInMap processes environment variables in a map
func ProcessEnvironmentInMap(input map[string]string, env map[string]string) map[string]string {
	if input == nil {
		return nil
	}
	result := make(map[string]string, len(input))

	for key, value := range input {
		result[key] = ProcessEnvironment(value, env)
	}

	return result
}

// GetConfigDir returns the directory containing the config file
func GetConfigDir(configPath string) string {
	return filepath.Dir(configPath)
}

// ParseDuration parses Go durations ("30s", "1m30s") and the spelled out
// forms "30 seconds", "5 minutes" and "1 hour".
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("duration cannot be empty")
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	fields := strings.Fields(strings.ToLower(s))
	if len(fields) != 2 {
		return 0, fmt.Errorf("invalid duration: %s", s)
	}
	unit := strings.TrimSuffix(fields[1], "s")
	abbrev := map[string]string{"millisecond": "ms", "second": "s", "minute": "m", "hour": "h"}[unit]
	if abbrev == "" {
		return 0, fmt.Errorf("invalid duration unit: %s", fields[1])
	}
	return time.ParseDuration(fields[0] + abbrev)
}
