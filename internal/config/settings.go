// internal/config/settings.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"

	"dmxMapper/internal/domain/dmxmap"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	DefaultSettingsFile = "dmxmapper.yaml"
	DefaultEnvFile      = ".env"
	ArtNetPort          = 6454
)

// Settings is the runtime configuration of the mapper service.
type Settings struct {
	MappingDir string       `yaml:"mappingDir"`
	Channels   int          `yaml:"channels"`
	ArtNet     ArtNetConfig `yaml:"artnet"`
	Routes     []Route      `yaml:"routes"`
	RoutesFile string       `yaml:"routesFile"`
	Simulate   bool         `yaml:"simulate"`
	Log        LogConfig    `yaml:"log"`
}

// ArtNetConfig holds the listening and sending side of the pipeline.
type ArtNetConfig struct {
	ListenAddr    string `yaml:"listenAddr"`
	ListenPort    int    `yaml:"listenPort"`
	OutputPort    int    `yaml:"outputPort"`
	RefreshFrames int    `yaml:"refreshFrames"`
}

// Route forwards input universe In, once mapped, to universe Out on IP.
type Route struct {
	Name string `yaml:"name"`
	In   int    `yaml:"in"`
	Out  int    `yaml:"out"`
	IP   string `yaml:"ip"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// Load builds Settings from defaults, the YAML file at path, the .env file and
// DMXMAP_* environment variables, in that order. An empty path tries
// DefaultSettingsFile and keeps the defaults when it does not exist.
func Load(path string) (*Settings, error) {
	cfg := DefaultSettings()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load settings from %s: %w", path, err)
		}
	} else if err := loadFromFile(cfg, DefaultSettingsFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load settings from %s: %w", DefaultSettingsFile, err)
	}

	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", DefaultEnvFile, err)
	}
	applyEnvOverrides(cfg)

	if cfg.RoutesFile != "" {
		routes, err := LoadRoutes(cfg.RoutesFile)
		if err != nil {
			return nil, err
		}
		cfg.Routes = append(cfg.Routes, routes...)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}
	return cfg, nil
}

// DefaultSettings maps a full universe read from the current directory, Art-Net on
// the standard port, no routes.
func DefaultSettings() *Settings {
	return &Settings{
		MappingDir: ".",
		Channels:   dmxmap.MaxChans,
		ArtNet: ArtNetConfig{
			ListenAddr:    "",
			ListenPort:    ArtNetPort,
			OutputPort:    ArtNetPort,
			RefreshFrames: 30,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

func loadFromFile(cfg *Settings, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Settings) {
	if dir := os.Getenv("DMXMAP_MAPPING_DIR"); dir != "" {
		cfg.MappingDir = dir
	}
	if v := os.Getenv("DMXMAP_CHANNELS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Channels = n
		}
	}
	if v := os.Getenv("DMXMAP_LISTEN_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ArtNet.ListenPort = n
		}
	}
	if v := os.Getenv("DMXMAP_OUTPUT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ArtNet.OutputPort = n
		}
	}
	if v := os.Getenv("DMXMAP_SIMULATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Simulate = b
		}
	}
	if v := os.Getenv("DMXMAP_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DMXMAP_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// Validate checks ranges and that no input universe is routed twice.
func Validate(cfg *Settings) error {
	if cfg.MappingDir == "" {
		return fmt.Errorf("mappingDir must not be empty")
	}
	if cfg.Channels < 1 || cfg.Channels > dmxmap.MaxChans {
		return fmt.Errorf("channels %d outside range [1, %d]", cfg.Channels, dmxmap.MaxChans)
	}
	if !validPort(cfg.ArtNet.ListenPort) {
		return fmt.Errorf("invalid listen port %d", cfg.ArtNet.ListenPort)
	}
	if !validPort(cfg.ArtNet.OutputPort) {
		return fmt.Errorf("invalid output port %d", cfg.ArtNet.OutputPort)
	}
	if cfg.ArtNet.RefreshFrames < 1 {
		return fmt.Errorf("refreshFrames must be at least 1, got %d", cfg.ArtNet.RefreshFrames)
	}

	seen := make(map[int]bool)
	outIP := make(map[int]string)
	for i, r := range cfg.Routes {
		if r.In < 0 || r.In > 0x7FFF || r.Out < 0 || r.Out > 0x7FFF {
			return fmt.Errorf("route %d: universe outside range [0, 32767]", i+1)
		}
		if net.ParseIP(r.IP) == nil {
			return fmt.Errorf("route %d: invalid IP %q", i+1, r.IP)
		}
		if seen[r.In] {
			return fmt.Errorf("route %d: input universe %d routed twice", i+1, r.In)
		}
		seen[r.In] = true
		if ip, ok := outIP[r.Out]; ok && ip != r.IP {
			return fmt.Errorf("route %d: output universe %d sent to both %s and %s", i+1, r.Out, ip, r.IP)
		}
		outIP[r.Out] = r.IP
	}
	return nil
}

func validPort(p int) bool {
	return p > 0 && p <= 65535
}
