// Package config loads vecdemo settings from yaml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied by DefaultConfig.
const (
	DefaultCount     = 5
	DefaultAllocator = AllocatorHeap
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Allocator backends.
const (
	AllocatorHeap  = "heap"
	AllocatorArena = "arena"
	AllocatorMmap  = "mmap"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Config is the vecdemo configuration file.
type Config struct {
	Count          int    `yaml:"count"`
	Allocator      string `yaml:"allocator"`
	ArenaChunkSize int    `yaml:"arena_chunk_size"`
	Lookups        []int  `yaml:"lookups"` // indices the run command reads back
	Log            Log    `yaml:"log"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config holding the package defaults.
func DefaultConfig() *Config {
	return &Config{
		Count:     DefaultCount,
		Allocator: DefaultAllocator,
		Lookups:   []int{0, 3, 5},
		Log: Log{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads path over DefaultConfig and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting, wrapped with ErrInvalid.
func (c *Config) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("%w: count %d is negative", ErrInvalid, c.Count)
	}
	switch c.Allocator {
	case AllocatorHeap, AllocatorArena, AllocatorMmap:
	default:
		return fmt.Errorf("%w: unknown allocator %q", ErrInvalid, c.Allocator)
	}
	if c.ArenaChunkSize < 0 {
		return fmt.Errorf("%w: arena_chunk_size %d is negative", ErrInvalid, c.ArenaChunkSize)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// SlogLevel parses Level as a slog level name.
func (l Log) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, l.Level)
	}
	return lvl, nil
}
