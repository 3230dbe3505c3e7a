package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jarvisdesk/jarvis/internal/config/tool"
)

// ConfigPath returns the default configuration file path: ~/.jarvis/config.json.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// DataDir returns the jarvis data directory: ~/.jarvis.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jarvis"
	}
	return filepath.Join(home, ".jarvis")
}

// DotEnvPaths lists the .env files consulted by LoadEnv, in priority order.
func DotEnvPaths() []string {
	return []string{".env", filepath.Join(DataDir(), ".env")}
}

// Load reads and parses the config file at path.
// If path is empty, ConfigPath() is used.
// On parse failure it prints a warning and returns DefaultConfig().
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		fmt.Printf("Warning: failed to parse config %s: %v\n", path, err)
		fmt.Println("Using default configuration.")
		cfg2 := DefaultConfig()
		return &cfg2, nil
	}

	return &cfg, nil
}

// Save writes cfg to path as indented JSON.
// If path is empty, ConfigPath() is used.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// LoadEnv overlays environment settings onto cfg. The first existing file in
// dotenvPaths is read as a .env file; real environment variables win over it.
func LoadEnv(cfg *Config, dotenvPaths ...string) error {
	v := viper.New()
	v.AutomaticEnv()

	for _, p := range dotenvPaths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		v.SetConfigFile(p)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var parseErr viper.ConfigParseError
			if errors.As(err, &parseErr) {
				return fmt.Errorf("parse %s: %w", p, err)
			}
			return fmt.Errorf("read %s: %w", p, err)
		}
		break
	}

	applyEnv(cfg, v)
	return nil
}

func applyEnv(cfg *Config, v *viper.Viper) {
	set := func(dst *string, key string) {
		if val := strings.TrimSpace(v.GetString(key)); val != "" {
			*dst = val
		}
	}

	set(&cfg.Providers.OpenAI.APIKey, "OPENAI_API_KEY")
	set(&cfg.Providers.OpenAI.APIBase, "OPENAI_BASE_URL")
	set(&cfg.Providers.Ollama.APIBase, "OLLAMA_HOST")
	set(&cfg.Providers.Active, "JARVIS_PROVIDER")
	set(&cfg.Agent.Model, "JARVIS_MODEL")

	switch cfg.Tools.Search.Backend {
	case tool.SearchBackendBrave:
		set(&cfg.Tools.Search.APIKey, "BRAVE_API_KEY")
	default:
		set(&cfg.Tools.Search.APIKey, "TAVILY_API_KEY")
	}
}
