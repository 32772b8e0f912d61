package transport

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the server's static, file-loaded configuration. Everything a
// running game needs beyond this lives in GameServerState.
type Config struct {
	ListenAddr        string        `yaml:"listen_addr"`
	KeepAliveInterval time.Duration `yaml:"keep_alive_interval"`
	SavePath          string        `yaml:"save_path"`
	ScenarioName      string        `yaml:"scenario_name"`
}

// DefaultConfig is what a freshly unpacked server runs with if no config
// file is given.
func DefaultConfig() Config {
	return Config{
		ListenAddr:        ":8080",
		KeepAliveInterval: 10 * time.Second,
		SavePath:          "solar-dawn.save",
		ScenarioName:      "balanced",
	}
}

// LoadConfig reads a YAML config file, filling in DefaultConfig for any
// field the file omits.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("transport: reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("transport: parsing config %s: %w", path, err)
	}
	if cfg.KeepAliveInterval <= 0 {
		return Config{}, fmt.Errorf("transport: keep_alive_interval must be positive")
	}
	return cfg, nil
}
