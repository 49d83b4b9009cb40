package config

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/lhaig/oxidize/internal/diagnostic"
)

// Crate describes the generated Cargo package.
type Crate struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Author  string `yaml:"author"`
	Edition string `yaml:"edition"`
}

// Build controls the step run after all files are written.
type Build struct {
	Command []string `yaml:"command"`
	Skip    bool     `yaml:"skip"`
}

// Log selects the diagnostic log level.
type Log struct {
	Level string `yaml:"level"`
}

// Config is the run configuration.
type Config struct {
	// Output is the afs URL of the crate root.
	Output string `yaml:"output"`
	Crate  Crate  `yaml:"crate"`
	// Features are emitted as #![feature(...)] directives.
	Features []string `yaml:"features"`
	// Allow lists lints silenced by the entry file.
	Allow []string `yaml:"allow"`
	// Implicit names crate roots that need no extern crate declaration.
	Implicit []string `yaml:"implicit"`
	// Dependencies pins crate versions; unlisted crates use "*".
	Dependencies map[string]string `yaml:"dependencies"`
	Build        Build             `yaml:"build"`
	Log          Log               `yaml:"log"`
}

var editions = map[string]bool{"2015": true, "2018": true, "2021": true, "2024": true}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Init()
	return cfg
}

// Init fills unset fields with their defaults.
func (c *Config) Init() {
	if c.Output == "" {
		c.Output = "out"
	}
	if c.Crate.Name == "" {
		c.Crate.Name = "output"
	}
	if c.Crate.Version == "" {
		c.Crate.Version = "0.1.0"
	}
	if c.Crate.Author == "" {
		c.Crate.Author = "oxidize"
	}
	if c.Crate.Edition == "" {
		c.Crate.Edition = "2021"
	}
	if len(c.Allow) == 0 {
		c.Allow = []string{"unused_parens", "unused_variables", "unused_imports", "dead_code", "non_snake_case", "non_upper_case_globals"}
	}
	if len(c.Build.Command) == 0 {
		c.Build.Command = []string{"cargo", "build"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "INFO"
	}
	if c.Dependencies == nil {
		c.Dependencies = make(map[string]string)
	}
}

// Validate checks versions and the edition. Dependency versions may carry a
// Cargo requirement operator (^, ~, =) or be the wildcard "*".
func (c *Config) Validate() error {
	diag := diagnostic.New()
	if !IsVersion(c.Crate.Version) {
		diag.Errorf(diagnostic.Pos{}, "crate version %q is not a semantic version", c.Crate.Version)
	}
	if !editions[c.Crate.Edition] {
		diag.ErrorWithHint(diagnostic.Pos{}, "unknown edition "+c.Crate.Edition, "use one of 2015, 2018, 2021, 2024")
	}
	for name, version := range c.Dependencies {
		if version == "*" {
			continue
		}
		if !IsVersion(strings.TrimLeft(version, "^~=")) {
			diag.Errorf(diagnostic.Pos{}, "dependency %s: version %q is not a semantic version", name, version)
		}
	}
	if diag.HasErrors() {
		return diag.Err()
	}
	return nil
}

// IsVersion reports whether version is a semantic version without the
// leading v, such as 1.2.3 or 0.4.
func IsVersion(version string) bool {
	return version != "" && !strings.HasPrefix(version, "v") && semver.IsValid("v"+version)
}

// DependencyVersion returns the pinned version of crate, or "*".
func (c *Config) DependencyVersion(crate string) string {
	if version, ok := c.Dependencies[crate]; ok && version != "" {
		return version
	}
	return "*"
}

// Load reads a YAML configuration from URL and applies defaults.
func Load(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config: %v", URL)
	}
	return Decode(data)
}

// Decode parses a YAML configuration and applies defaults.
func Decode(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	cfg.Init()
	return cfg, cfg.Validate()
}
