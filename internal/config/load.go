package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name of the lightspec configuration file.
const ConfigFileName = "lightspec.toml"

// FindConfigFile walks up from the given directory to find lightspec.toml.
// Returns the absolute path to the config file, or an empty string if not
// found. Stops at the filesystem root.
func FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root.
			return "", nil
		}
		dir = parent
	}
}

// LoadFromFile parses the TOML file at the given path over the defaults and
// returns the configuration and TOML metadata. The metadata can be used to
// detect unknown keys via MetaData.Undecoded().
func LoadFromFile(path string) (*Config, toml.MetaData, error) {
	cfg := NewDefaults()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, md, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, md, nil
}

// Load discovers and loads the configuration: an explicit path wins, then
// the nearest lightspec.toml walking up from the working directory, then
// pure defaults. The returned path is empty when no file was found; meta is
// nil in that case.
func Load(explicitPath string) (*Config, *toml.MetaData, string, error) {
	path := explicitPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, nil, "", fmt.Errorf("config: resolving working directory: %w", err)
		}
		found, err := FindConfigFile(wd)
		if err != nil {
			return nil, nil, "", fmt.Errorf("config: %w", err)
		}
		path = found
	}

	if path == "" {
		return NewDefaults(), nil, "", nil
	}

	cfg, md, err := LoadFromFile(path)
	if err != nil {
		return nil, nil, "", fmt.Errorf("config: %w", err)
	}
	return cfg, &md, path, nil
}
