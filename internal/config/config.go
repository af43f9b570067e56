package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"guardians/internal/domain"
)

const FileName = "guardians.yml"

// Config models guardians.yml.
type Config struct {
	Server struct {
		Addr     string `yaml:"addr"`
		BasePath string `yaml:"base_path"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Chronicle struct {
		// DSN is a SQLite path; ":memory:" keeps the chronicle in process.
		DSN string `yaml:"dsn"`
	} `yaml:"chronicle"`
	Policies struct {
		ValidatePatches *bool `yaml:"validate_patches"`
	} `yaml:"policies"`
	// Seed maps a plural resource name to the records created at startup.
	Seed map[string][]map[string]any `yaml:"seed"`
}

// ValidatePatchesEnabled reports the patch policy; it is on unless disabled.
func (c *Config) ValidatePatchesEnabled() bool {
	return c.Policies.ValidatePatches == nil || *c.Policies.ValidatePatches
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("config.server.addr is required")
	}
	if !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("config.server.base_path must start with '/'")
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("config.log.level: %w", err)
		}
	}
	if c.Chronicle.DSN == "" {
		return fmt.Errorf("config.chronicle.dsn is required")
	}
	known := map[string]bool{}
	for _, d := range domain.Descriptors() {
		known[d.Plural] = true
	}
	for plural, records := range c.Seed {
		if !known[plural] {
			return fmt.Errorf("config.seed has unknown resource %s", plural)
		}
		for i, rec := range records {
			if rec == nil {
				return fmt.Errorf("config.seed.%s[%d] is empty", plural, i)
			}
		}
	}
	return nil
}

// Path returns the config file path inside dir.
func Path(dir string) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, FileName)
}

// Load reads and validates config from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; write one with gq config default > %s", path, FileName)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional falls back to Default when path does not exist.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// Default returns the default Config, including the demo seed records.
func Default() *Config {
	cfg, err := FromYAML([]byte(defaultTemplate))
	if err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	return cfg
}

// FromYAML parses and validates config from raw YAML bytes. Keys missing
// from data keep their default values; the default seed is only used when
// data has no seed key at all.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(defaultTemplate), &cfg); err != nil {
		return nil, fmt.Errorf("invalid default config: %w", err)
	}
	var override struct {
		Seed *yaml.Node `yaml:"seed"`
	}
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if override.Seed != nil {
		cfg.Seed = nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

const defaultTemplate = `server:
  addr: 127.0.0.1:4000
  base_path: /api/v1

log:
  level: info

chronicle:
  dsn: ":memory:"

policies:
  # Re-validate records after a PATCH merge; false commits merged fields as is.
  validate_patches: true

seed:
  guilds:
    - { id: g-1, name: Krakow Guild, motto: Knowledge and Steel }
  guardians:
    - { id: u-1, name: Agnieszka, role: leader, guildId: g-1 }
  bosses:
    - { id: b-1, title: Intermittent 500 on checkout, status: new, severity: high }
  arsenals:
    - { id: a-1, name: Regression Suite, description: Full regression }
  weapons:
    - { id: w-1, name: Login test, type: e2e }
  campaigns:
    - { id: c-1, name: Nightly run, schedule: "0 2 * * *" }
  wounds:
    - { id: wd-1, guardianId: u-1, severity: minor, status: open, description: Flaky test fatigue, battleId: bt-1 }
  battles:
    - { id: bt-1, guildId: g-1, bossId: b-1, arsenalId: a-1, environment: staging }
  oracles:
    - { id: o-1, target: staging, kind: security, prophecy: All green. }
  relics:
    - { id: r-1, type: report, name: Battle report bt-1, battleId: bt-1 }
  alliances:
    - { id: al-1, name: Northern Pact, purpose: Share test infrastructure and reports, guildIds: [g-1] }
`
