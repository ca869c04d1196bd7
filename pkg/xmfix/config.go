package xmfix

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-ini/ini"
)

// ToolsConfig names the external binaries used for ZIP recovery.
type ToolsConfig struct {
	Zip   string `ini:"zip"`   // Repair tool, invoked as: zip -FF IN --out OUT
	Unzip string `ini:"unzip"` // Extraction tool, invoked as: unzip IN -d DIR
}

// OutputConfig controls how the rebuilt archive is written.
type OutputConfig struct {
	Compressed bool `ini:"compressed"` // Deflate entries instead of storing them
}

// Config holds the xmfix runtime configuration.
type Config struct {
	Tools  ToolsConfig  `ini:"tools"`
	Output OutputConfig `ini:"output"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Tools: ToolsConfig{
			Zip:   "zip",
			Unzip: "unzip",
		},
	}
}

// LoadConfig reads configuration from the INI file at path. An empty path
// falls back to the user config location; a missing file yields defaults.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = userConfigPath()
	}

	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if err := file.Section("tools").MapTo(&cfg.Tools); err != nil {
		return nil, fmt.Errorf("failed to parse [tools] section: %w", err)
	}
	if err := file.Section("output").MapTo(&cfg.Output); err != nil {
		return nil, fmt.Errorf("failed to parse [output] section: %w", err)
	}
	if cfg.Tools.Zip == "" {
		cfg.Tools.Zip = "zip"
	}
	if cfg.Tools.Unzip == "" {
		cfg.Tools.Unzip = "unzip"
	}
	return cfg, nil
}

func userConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "xmfix", "config")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "xmfix", "config")
}
