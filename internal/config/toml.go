package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Load reads a TOML file over the defaults. A missing file is not an error:
// the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // File doesn't exist, not an error
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := decode(path, data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFromReader reads TOML from r over the defaults.
func LoadFromReader(r io.Reader) (Config, error) {
	cfg := Default()
	data, err := io.ReadAll(r)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := decode("<reader>", data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// decode unmarshals data into cfg, rejecting unknown keys so typos in a
// config file do not silently fall back to defaults.
func decode(source string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(cfg); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}

		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			pe.Message = "unknown keys:\n" + sme.String()
		}
		return pe
	}
	return nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	enc := toml.NewEncoder(w)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
