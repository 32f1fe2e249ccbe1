package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chheis/eclipse-sdv-projects-landscape2/pkg/landscape"
	"github.com/chheis/eclipse-sdv-projects-landscape2/pkg/logos"
	"github.com/chheis/eclipse-sdv-projects-landscape2/pkg/source"
)

// Config holds the generator settings. Every field can be overridden on the
// command line.
type Config struct {
	APIURL      string        `yaml:"api_url"`
	Input       string        `yaml:"input"`
	Output      string        `yaml:"output"`
	Categories  string        `yaml:"categories"`
	LogoDir     *string       `yaml:"logo_dir"`
	LogoTimeout time.Duration `yaml:"logo_timeout"`
	Publish     Publish       `yaml:"publish"`
}

// Publish configures the pull request opened by the publish command
type Publish struct {
	Repo string `yaml:"repo"` // owner/name
	Path string `yaml:"path"`
	Base string `yaml:"base"`
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads a YAML config file and fills in defaults for anything it leaves
// unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file %s: %v", landscape.ErrIO, path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config file %s: %v", landscape.ErrParse, path, err)
	}
	cfg.setDefaults()
	return &cfg, nil
}

// LogoDirectory returns the logo download directory; empty disables
// downloading.
func (c *Config) LogoDirectory() string {
	if c.LogoDir == nil {
		return ""
	}
	return *c.LogoDir
}

func (c *Config) setDefaults() {
	if c.APIURL == "" {
		c.APIURL = source.DefaultAPIURL
	}
	if c.Output == "" {
		c.Output = "data.yml"
	}
	if c.Categories == "" {
		c.Categories = "static_categories.yml"
	}
	// An explicit empty logo_dir disables downloads, so only a missing key
	// gets the default.
	if c.LogoDir == nil {
		dir := "logos"
		c.LogoDir = &dir
	}
	if c.LogoTimeout <= 0 {
		c.LogoTimeout = logos.DefaultTimeout
	}
	if c.Publish.Path == "" {
		c.Publish.Path = "data.yml"
	}
}
