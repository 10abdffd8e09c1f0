// Package config loads a card slot profile from YAML: platform
// capabilities, KEY1 key table files, handshake settings and logging.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-ntrcard/blowfish"
	"github.com/moffa90/go-ntrcard/keytable"
	"github.com/moffa90/go-ntrcard/ntrcard"
)

type Config struct {
	Platform  PlatformConfig  `yaml:"platform"`
	Keys      []KeyConfig     `yaml:"keys"`
	Handshake HandshakeConfig `yaml:"handshake"`
	Logging   LoggingConfig   `yaml:"logging"`
	Trace     TraceConfig     `yaml:"trace"`
}

type PlatformConfig struct {
	HardwareKey2  *bool  `yaml:"hardware_key2"`
	CanReset      *bool  `yaml:"can_reset"`
	InitialStatus string `yaml:"initial_status"`
}

type KeyConfig struct {
	Selector string `yaml:"selector"`
	File     string `yaml:"file"`

	// Blake2b is the hex BLAKE2b-256 digest of File. Optional.
	Blake2b string `yaml:"blake2b"`
}

type HandshakeConfig struct {
	Selector  string  `yaml:"selector"`
	BootDelay *uint32 `yaml:"boot_delay"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TraceConfig struct {
	Archive string `yaml:"archive"`
}

func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	cfg.resolvePaths(path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Platform.InitialStatus) != "" {
		if _, err := ntrcard.ParseStatus(c.Platform.InitialStatus); err != nil {
			return fmt.Errorf("config.platform.initial_status: %w", err)
		}
	}

	seen := make(map[blowfish.Selector]bool)
	for i, k := range c.Keys {
		field := fmt.Sprintf("config.keys[%d]", i)
		sel, err := blowfish.ParseSelector(k.Selector)
		if err != nil {
			return fmt.Errorf("%s.selector: %w", field, err)
		}
		if seen[sel] {
			return fmt.Errorf("%s.selector: duplicate selector %s", field, sel)
		}
		seen[sel] = true

		if strings.TrimSpace(k.File) == "" {
			return fmt.Errorf("%s.file is required", field)
		}
		if err := validateReadableFile(k.File, field+".file"); err != nil {
			return err
		}
		if d := strings.TrimSpace(k.Blake2b); d != "" && len(d) != 64 {
			return fmt.Errorf("%s.blake2b must be 64 hex digits", field)
		}
	}

	if strings.TrimSpace(c.Handshake.Selector) != "" {
		sel, err := blowfish.ParseSelector(c.Handshake.Selector)
		if err != nil {
			return fmt.Errorf("config.handshake.selector: %w", err)
		}
		if len(c.Keys) > 0 && !seen[sel] {
			return fmt.Errorf("config.handshake.selector: no key table configured for %s", sel)
		}
	}

	if strings.TrimSpace(c.Logging.Level) != "" {
		if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("config.logging.level: %w", err)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config.logging.format must be text or json")
	}

	return nil
}

// Capabilities returns the platform capabilities. Both features default to
// available and the card is assumed to start in RAW mode.
func (c *Config) Capabilities() ntrcard.Capabilities {
	caps := ntrcard.Capabilities{
		HardwareKey2:  true,
		CanReset:      true,
		InitialStatus: ntrcard.StatusRaw,
	}
	if c.Platform.HardwareKey2 != nil {
		caps.HardwareKey2 = *c.Platform.HardwareKey2
	}
	if c.Platform.CanReset != nil {
		caps.CanReset = *c.Platform.CanReset
	}
	if s, err := ntrcard.ParseStatus(c.Platform.InitialStatus); err == nil {
		caps.InitialStatus = s
	}
	return caps
}

// Selector returns the handshake key table selector, blowfish.KeyNTR by
// default.
func (c *Config) Selector() blowfish.Selector {
	sel, err := blowfish.ParseSelector(c.Handshake.Selector)
	if err != nil {
		return blowfish.KeyNTR
	}
	return sel
}

// KeyStore loads every configured key table.
func (c *Config) KeyStore() (*keytable.Store, error) {
	store := keytable.NewStore()
	for _, k := range c.Keys {
		sel, err := blowfish.ParseSelector(k.Selector)
		if err != nil {
			return nil, err
		}
		if err := store.Load(sel, k.File, strings.TrimSpace(k.Blake2b)); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Logger returns a logrus logger with the configured level and format.
func (c *Config) Logger() *logrus.Logger {
	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(c.Logging.Level); err == nil {
		logger.SetLevel(lvl)
	}
	if strings.EqualFold(strings.TrimSpace(c.Logging.Format), "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// Options returns the ntrcard options described by the config, logging
// through logger.
func (c *Config) Options(logger logrus.FieldLogger) []ntrcard.Option {
	opts := []ntrcard.Option{ntrcard.WithLogger(ntrcard.NewLogrusLogger(logger))}
	if c.Handshake.BootDelay != nil {
		opts = append(opts, ntrcard.WithBootDelay(*c.Handshake.BootDelay))
	}
	return opts
}

func (c *Config) resolvePaths(configPath string) {
	configDir := filepath.Dir(configPath)
	for i := range c.Keys {
		c.Keys[i].File = resolvePath(configDir, c.Keys[i].File)
	}
	c.Trace.Archive = resolvePath(configDir, c.Trace.Archive)
}

func resolvePath(baseDir, path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Clean(filepath.Join(baseDir, trimmed))
}

func validateReadableFile(path string, field string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s must point to a file, got directory", field)
	}
	return nil
}
