// Package config holds the checker options and loads them from TOML or YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dimenus/Odin/internal/types"
)

// Options controls a checking run.
type Options struct {
	WordSize     int64  `toml:"word_size" yaml:"word_size"`
	MaxErrors    int    `toml:"max_errors" yaml:"max_errors"`
	Color        string `toml:"color" yaml:"color"`
	LogLevel     string `toml:"log_level" yaml:"log_level"`
	DisallowRTTI bool   `toml:"disallow_rtti" yaml:"disallow_rtti"`
	StrictCasts  bool   `toml:"strict_casts" yaml:"strict_casts"`
	Jobs         int    `toml:"jobs" yaml:"jobs"`
}

// Default returns the options used when no config file is given.
func Default() Options {
	return Options{
		WordSize: 8,
		Color:    "auto",
		LogLevel: "warn",
	}
}

// Load reads path and overlays it on Default. The decoder is picked by
// extension.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read config: %w", err)
	}
	opts := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), &opts)
		if err != nil {
			return Options{}, fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Options{}, fmt.Errorf("parse %s: unknown field %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
			return Options{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return Options{}, fmt.Errorf("config %s: unsupported extension %q", path, filepath.Ext(path))
	}
	if err := opts.Validate(); err != nil {
		return Options{}, fmt.Errorf("config %s: %w", path, err)
	}
	return opts, nil
}

// Validate rejects option combinations the checker cannot honour.
func (o Options) Validate() error {
	if o.WordSize != 4 && o.WordSize != 8 {
		return fmt.Errorf("word_size must be 4 or 8, got %d", o.WordSize)
	}
	if o.MaxErrors < 0 {
		return fmt.Errorf("max_errors must not be negative")
	}
	if o.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative")
	}
	switch o.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", o.Color)
	}
	if _, err := o.Level(); err != nil {
		return err
	}
	return nil
}

// Level maps LogLevel to a slog level.
func (o Options) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// Sizes is the target layout described by the options.
func (o Options) Sizes() types.Sizes {
	return types.Sizes{WordSize: o.WordSize}
}
