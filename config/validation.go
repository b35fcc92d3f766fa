package config

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/grovetools/tabs/errors"
)

var tabsetNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	names := make([]string, 0, len(c.Tabsets))
	for name := range c.Tabsets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !tabsetNameRegex.MatchString(name) {
			return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("invalid tabset name '%s'", name)).
				WithDetail("tabset", name)
		}
		if err := validateTabset(name, c.Tabsets[name]); err != nil {
			return err
		}
	}

	if err := validateStore(&c.Store); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid store configuration")
	}

	return nil
}

func validateTabset(name string, ts TabsetConfig) error {
	if ts.Category == "" {
		return errors.CategoryMissing(name)
	}

	active := 0
	for i, tab := range ts.Tabs {
		if tab.Label == "" {
			return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("tab %d of '%s' has no label", i, name)).
				WithDetail("tabset", name).
				WithDetail("index", i)
		}
		if tab.Active {
			active++
		}
	}
	if active > 1 {
		return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("tabset '%s' marks %d tabs active", name, active)).
			WithDetail("tabset", name)
	}

	return nil
}

func validateStore(s *StoreConfig) error {
	switch s.Backend {
	case BackendMemory:
	case BackendFile:
		if s.File.Path == "" {
			return fmt.Errorf("file backend requires file.path")
		}
	case BackendNATS:
		if s.NATS.URL == "" {
			return fmt.Errorf("nats backend requires nats.url")
		}
	default:
		return fmt.Errorf("unknown backend '%s'", s.Backend)
	}

	ttl, err := s.TTLDuration()
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}
	return nil
}
