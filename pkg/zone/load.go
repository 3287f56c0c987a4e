package zone

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a template binding from a JSON or YAML file, picking the
// decoder by file extension (.json vs .yaml/.yml; anything else is tried as
// JSON first). The returned config is normalized and validated.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes a template binding from raw bytes. The ext hint
// selects the decoder; JSON input is also accepted without a hint.
func ParseConfig(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			if yerr := yaml.Unmarshal(data, &cfg); yerr != nil {
				return nil, fmt.Errorf("config is neither JSON (%v) nor YAML: %w", err, yerr)
			}
		}
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
