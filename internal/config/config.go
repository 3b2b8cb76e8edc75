package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Concerns that can be switched off
const (
	ConcernRow         = "row"
	ConcernPreferences = "preferences"
	ConcernParcel      = "parcel"
)

// BuildTag is set while loading packages; generated files carry
// //go:build !valuegen so they are left out of type checking
const BuildTag = "valuegen"

// FileNames are the config file names looked up in a package directory,
// in order
var FileNames = []string{"valuegen.json", "valuegen.yaml", "valuegen.yml"}

// Config represents the valuegen configuration
type Config struct {
	Output           string            `json:"output" yaml:"output"`
	TagKey           string            `json:"tagKey" yaml:"tagKey"`
	Naming           Naming            `json:"naming" yaml:"naming"`
	Disabled         []string          `json:"disabled" yaml:"disabled"`
	Workers          int               `json:"workers" yaml:"workers"`
	ExternalPackages []ExternalPackage `json:"externalPackages" yaml:"externalPackages"`
}

// Naming holds fmt patterns applied to the value type name
type Naming struct {
	Constructor        string `json:"constructor" yaml:"constructor"`
	RowFactory         string `json:"rowFactory" yaml:"rowFactory"`
	PreferencesFactory string `json:"preferencesFactory" yaml:"preferencesFactory"`
	Creator            string `json:"creator" yaml:"creator"`
}

// ExternalPackage makes adapters of another package addressable as
// alias.Type
type ExternalPackage struct {
	Alias      string `json:"alias" yaml:"alias"`
	ImportPath string `json:"importPath" yaml:"importPath"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file. JSON is assumed unless the
// extension is .yaml or .yml. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Find loads the first config file present in dir, or the defaults
func Find(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

func (c *Config) applyDefaults() {
	if c.Output == "" {
		c.Output = "valuegen_gen.go"
	}
	if c.TagKey == "" {
		c.TagKey = "valuegen"
	}
	if c.Naming.Constructor == "" {
		c.Naming.Constructor = "new%s"
	}
	if c.Naming.RowFactory == "" {
		c.Naming.RowFactory = "%sFromRow"
	}
	if c.Naming.PreferencesFactory == "" {
		c.Naming.PreferencesFactory = "%sFromPreferences"
	}
	if c.Naming.Creator == "" {
		c.Naming.Creator = "%sCreator"
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
}

// Validate checks naming patterns and concern names
func (c *Config) Validate() error {
	for name, pattern := range map[string]string{
		"constructor":        c.Naming.Constructor,
		"rowFactory":         c.Naming.RowFactory,
		"preferencesFactory": c.Naming.PreferencesFactory,
		"creator":            c.Naming.Creator,
	} {
		if strings.Count(pattern, "%s") != 1 {
			return fmt.Errorf("naming.%s %q must contain exactly one %%s", name, pattern)
		}
	}

	for _, d := range c.Disabled {
		switch d {
		case ConcernRow, ConcernPreferences, ConcernParcel:
		default:
			return fmt.Errorf("unknown concern %q in disabled", d)
		}
	}

	if !strings.HasSuffix(c.Output, ".go") {
		return fmt.Errorf("output %q must be a .go file", c.Output)
	}
	return nil
}

// Enabled reports whether concern has not been disabled
func (c *Config) Enabled(concern string) bool {
	for _, d := range c.Disabled {
		if d == concern {
			return false
		}
	}
	return true
}

// ImportPath resolves an external package alias
func (c *Config) ImportPath(alias string) (string, bool) {
	for _, ep := range c.ExternalPackages {
		if ep.Alias == alias {
			return ep.ImportPath, true
		}
	}
	return "", false
}

func (n Naming) ConstructorName(typeName string) string {
	return fmt.Sprintf(n.Constructor, typeName)
}

func (n Naming) RowFactoryName(typeName string) string {
	return fmt.Sprintf(n.RowFactory, typeName)
}

func (n Naming) PreferencesFactoryName(typeName string) string {
	return fmt.Sprintf(n.PreferencesFactory, typeName)
}

func (n Naming) CreatorName(typeName string) string {
	return fmt.Sprintf(n.Creator, typeName)
}
