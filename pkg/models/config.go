package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	MaxThreads      = 50
	DefaultThreads  = 10
	DefaultTimeout  = 2 * time.Second
	DefaultWordlist = "subdomains.txt"
)

// RunConfig is fixed when a scan starts and only read afterwards.
type RunConfig struct {
	Domain      string        `yaml:"domain" json:"domain"`
	Wordlist    string        `yaml:"wordlist" json:"wordlist"`
	Threads     int           `yaml:"threads" json:"threads"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	Resolvers   []string      `yaml:"resolvers" json:"resolvers"`
	MetricsAddr string        `yaml:"metrics_addr" json:"metrics_addr"`
	NoColor     bool          `yaml:"no_color" json:"no_color"`
}

func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Wordlist: DefaultWordlist,
		Threads:  DefaultThreads,
		Timeout:  DefaultTimeout,
	}
}

// Clamp caps the thread count at MaxThreads.
func (c *RunConfig) Clamp() {
	if c.Threads > MaxThreads {
		c.Threads = MaxThreads
	}
}

// Workers returns how many workers a run over n candidates may start.
func (c *RunConfig) Workers(n int) int {
	w := c.Threads
	if w > MaxThreads {
		w = MaxThreads
	}
	if w > n {
		w = n
	}
	if w < 0 {
		w = 0
	}
	return w
}

// Validate checks a full configuration, wordlist path included.
func (c *RunConfig) Validate() error {
	errs := c.runErrors()
	if strings.TrimSpace(c.Wordlist) == "" {
		errs = append(errs, "wordlist must not be empty")
	}
	return validationError(errs)
}

// ValidateRun checks only what a run over an in-memory candidate list needs.
func (c *RunConfig) ValidateRun() error {
	return validationError(c.runErrors())
}

func (c *RunConfig) runErrors() []string {
	var errs []string

	if strings.TrimSpace(c.Domain) == "" {
		errs = append(errs, "domain must not be empty")
	}
	if c.Threads <= 0 {
		errs = append(errs, "threads must be > 0")
	}
	if c.Timeout <= 0 {
		errs = append(errs, "timeout must be > 0")
	}
	for _, r := range c.Resolvers {
		if strings.TrimSpace(r) == "" {
			errs = append(errs, "resolvers must not contain empty entries")
			break
		}
	}
	return errs
}

func validationError(errs []string) error {
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Save writes the config as YAML. Domain is not required here so that
// profiles can be written before a target is known.
func (c *RunConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomically write config: %w", err)
	}
	return nil
}

func (c *RunConfig) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}
