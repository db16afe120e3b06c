package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v2"
)

const (
	DefaultConfigFile = "config.yml"

	EnvAPIBase  = "TAINTGRAPH_API_BASE"
	EnvLogLevel = "TAINTGRAPH_LOG_LEVEL"
)

type Config struct {
	Logger     Logger     `yaml:"logger" toml:"logger"`
	HttpClient HttpClient `yaml:"http_client" toml:"http_client"`
	Tracer     Tracer     `yaml:"tracer" toml:"tracer"`
	Layout     Layout     `yaml:"layout" toml:"layout"`
}

type Logger struct {
	Level           string `yaml:"level" toml:"level"`
	DisableTime     *bool  `yaml:"disable_time" toml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format" toml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location" toml:"include_location"`
}

type HttpClient struct {
	Debug            *bool           `yaml:"debug" toml:"debug"`
	RetryCount       int             `yaml:"retry_count" toml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time" toml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time" toml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout" toml:"timeout"`
	TlsClientConfig  TlsClientConfig `yaml:"tls_client_config" toml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy" toml:"proxy"`
}

type TlsClientConfig struct {
	Verify *bool `yaml:"verify" toml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host" toml:"host"`
	Port int    `yaml:"port" toml:"port"`
}

// Tracer points at the backend that answers source, sink and trace queries.
type Tracer struct {
	BaseURL  string `yaml:"base_url" toml:"base_url"`
	MaxPaths int    `yaml:"max_paths" toml:"max_paths"`
}

// Layout overrides the force simulation defaults. Unset fields keep the
// engine defaults.
type Layout struct {
	Width           float64 `yaml:"width" toml:"width"`
	Height          float64 `yaml:"height" toml:"height"`
	LinkDistance    float64 `yaml:"link_distance" toml:"link_distance"`
	ChargeStrength  float64 `yaml:"charge_strength" toml:"charge_strength"`
	DistanceMin     float64 `yaml:"distance_min" toml:"distance_min"`
	AlphaMin        float64 `yaml:"alpha_min" toml:"alpha_min"`
	AlphaDecay      float64 `yaml:"alpha_decay" toml:"alpha_decay"`
	DragAlphaTarget float64 `yaml:"drag_alpha_target" toml:"drag_alpha_target"`
	VelocityDecay   float64 `yaml:"velocity_decay" toml:"velocity_decay"`
	MaxTicks        int     `yaml:"max_ticks" toml:"max_ticks"`
	Seed            int64   `yaml:"seed" toml:"seed"`
}

func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadTOML decodes a TOML config file into data.
func LoadTOML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}
	if _, err := toml.DecodeFile(configPath, data); err != nil {
		return err
	}
	return nil
}

// LoadConfig reads the config file, picking the decoder by extension, and
// applies environment overrides on top.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	var err error
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".toml":
		err = LoadTOML(configPath, config)
	default:
		err = LoadYAML(configPath, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", configPath, err)
	}

	ApplyEnvironment(config)
	return config, nil
}

// LoadDotEnv loads variables from the given env files into the process
// environment. Missing files are skipped, existing variables win.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %q: %w", f, err)
		}
	}
	return nil
}

// ApplyEnvironment overrides config values with TAINTGRAPH_* variables.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvAPIBase); v != "" {
		cfg.Tracer.BaseURL = v
	}
}
