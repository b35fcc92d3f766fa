package config

import (
	"fmt"
	"time"

	"github.com/grovetools/tabs/pkg/paths"
	"github.com/mitchellh/mapstructure"
)

// Store backends understood by the store section.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendNATS   = "nats"
)

// DefaultStoreTTL bounds how long a drag entry may outlive its gesture.
const DefaultStoreTTL = 5 * time.Minute

// Config is the root of a tabs.yml / tabs.toml file.
type Config struct {
	Version string                  `yaml:"version" json:"version"`
	Tabsets map[string]TabsetConfig `yaml:"tabsets,omitempty" json:"tabsets,omitempty"`
	Store   StoreConfig             `yaml:"store,omitempty" json:"store,omitempty"`

	// Extensions holds every top-level key not known to the core, such as
	// the "logging" section. Decode with UnmarshalExtension.
	Extensions map[string]interface{} `yaml:",inline" json:"-"`
}

// TabsetConfig declares one strip. Category gates cross-strip drops and is
// required for every drag-capable strip.
type TabsetConfig struct {
	Category  string      `yaml:"category,omitempty" json:"category,omitempty" jsonschema:"description=Category tag shared by strips that accept each other's tabs"`
	Type      string      `yaml:"type,omitempty" json:"type,omitempty" jsonschema:"enum=tabs,enum=pills,description=Rendering style of the strip"`
	Vertical  bool        `yaml:"vertical,omitempty" json:"vertical,omitempty" jsonschema:"description=Stack tabs vertically"`
	Justified bool        `yaml:"justified,omitempty" json:"justified,omitempty" jsonschema:"description=Spread tabs across the full width"`
	Tabs      []TabConfig `yaml:"tabs,omitempty" json:"tabs,omitempty" jsonschema:"description=Initial tabs of the strip"`
}

// TabConfig seeds one tab of a strip.
type TabConfig struct {
	Label    string `yaml:"label,omitempty" json:"label,omitempty" jsonschema:"description=Visible heading of the tab"`
	Content  string `yaml:"content,omitempty" json:"content,omitempty"`
	Active   bool   `yaml:"active,omitempty" json:"active,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// StoreConfig selects the ephemeral store used to pass drop acceptance
// between strips.
type StoreConfig struct {
	Backend string          `yaml:"backend,omitempty" json:"backend,omitempty" jsonschema:"enum=memory,enum=file,enum=nats,description=Ephemeral store backend"`
	TTL     string          `yaml:"ttl,omitempty" json:"ttl,omitempty" jsonschema:"description=Expiry for abandoned drag entries (Go duration)"`
	File    FileStoreConfig `yaml:"file,omitempty" json:"file,omitempty"`
	NATS    NATSStoreConfig `yaml:"nats,omitempty" json:"nats,omitempty"`
}

// FileStoreConfig configures the same-host file backend.
type FileStoreConfig struct {
	Path string `yaml:"path,omitempty" json:"path,omitempty" jsonschema:"description=Path of the shared YAML file"`
}

// NATSStoreConfig configures the JetStream key/value backend.
type NATSStoreConfig struct {
	URL    string `yaml:"url,omitempty" json:"url,omitempty" jsonschema:"description=NATS server URL"`
	Bucket string `yaml:"bucket,omitempty" json:"bucket,omitempty" jsonschema:"description=Key/value bucket name"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = BackendMemory
	}
	if c.Store.TTL == "" {
		c.Store.TTL = DefaultStoreTTL.String()
	}
	if c.Store.Backend == BackendFile && c.Store.File.Path == "" {
		c.Store.File.Path = paths.DragStoreFile()
	}
	if c.Store.NATS.Bucket == "" {
		c.Store.NATS.Bucket = "tabs-drag"
	}
	for name, ts := range c.Tabsets {
		if ts.Type == "" {
			ts.Type = "tabs"
			c.Tabsets[name] = ts
		}
	}
}

// TTLDuration parses Store.TTL, falling back to DefaultStoreTTL when unset.
func (s StoreConfig) TTLDuration() (time.Duration, error) {
	if s.TTL == "" {
		return DefaultStoreTTL, nil
	}
	d, err := time.ParseDuration(s.TTL)
	if err != nil {
		return 0, fmt.Errorf("parse store ttl %q: %w", s.TTL, err)
	}
	return d, nil
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded tabs.yml into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// A missing key leaves the target zero-valued.
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
