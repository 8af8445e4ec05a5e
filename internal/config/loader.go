package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const configFile = "rocket.yaml"

// Load loads the rocket environment configuration.
// Search order: customPath -> ~/.skyrocket/configs/rocket.yaml -> ./configs/rocket.yaml -> embedded default
//
// A custom path ending in .toml is decoded as TOML, anything else as YAML.
// Keys missing from a file keep their default values.
func Load(customPath string) (RocketConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return RocketConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data, formatOf(customPath))
		if err != nil {
			return RocketConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data, FormatYAML); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", configFile)); err == nil {
		if cfg, err := Parse(data, FormatYAML); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultRocketYAML, FormatYAML)
	if err != nil {
		return DefaultRocketConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Format identifies a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Parse decodes data on top of the hardcoded defaults and validates the result.
func Parse(data []byte, format Format) (RocketConfig, error) {
	cfg := DefaultRocketConfig()

	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return RocketConfig{}, err
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return RocketConfig{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return RocketConfig{}, err
	}
	return cfg, nil
}

// Marshal encodes the configuration in the given format.
func Marshal(cfg RocketConfig, format Format) ([]byte, error) {
	if format == FormatTOML {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return yaml.Marshal(cfg)
}

func formatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".skyrocket", "configs", filename)
}
