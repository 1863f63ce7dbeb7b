package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/rain-alert/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML configuration. Its keys match the deployed
// config.yaml files, which is why the API key is upper case.
type File struct {
	Areas      []domain.Area `yaml:"areas" json:"areas"`
	APIKey     string        `yaml:"API_KEY" json:"API_KEY"`
	CorpID     string        `yaml:"corpid" json:"corpid"`
	CorpSecret string        `yaml:"corpsecret" json:"corpsecret"`
	AgentID    int           `yaml:"agentid" json:"agentid"`
}

// Config holds all job settings: the YAML file plus environment overrides.
type Config struct {
	File

	ConfigPath string
	LogLevel   string
	LogFormat  string
	LogFile    string

	HTTPTimeout     time.Duration
	ForecastBaseURL string
	WeComBaseURL    string

	// Pushgateway is optional; metrics are only pushed when set.
	PushgatewayURL string
	PushJob        string
}

// Load reads an optional .env file, the YAML config file and environment
// variables, applying defaults where unset.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("HTTP_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		return nil, errors.New("invalid HTTP_TIMEOUT")
	}

	cfg := &Config{
		ConfigPath:      sharedcfg.EnvOrDefault("CONFIG_PATH", "config.yaml"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		LogFile:         os.Getenv("LOG_FILE"),
		HTTPTimeout:     timeout,
		ForecastBaseURL: sharedcfg.EnvOrDefault("AMAP_BASE_URL", "https://restapi.amap.com/v3/weather/weatherInfo"),
		WeComBaseURL:    sharedcfg.EnvOrDefault("WECOM_BASE_URL", "https://qyapi.weixin.qq.com"),
		PushgatewayURL:  os.Getenv("PUSHGATEWAY_URL"),
		PushJob:         sharedcfg.EnvOrDefault("PUSHGATEWAY_JOB", "rain_alert"),
	}
	if _, set := os.LookupEnv("LOG_FILE"); !set {
		cfg.LogFile = "logs/rain-alert.log"
	}

	file, err := ReadFile(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.File = *file

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile decodes the YAML config at path. A missing file yields an empty
// File so that environment variables alone can configure the job.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &f, nil
}

// WriteFile encodes f as YAML at path, creating or truncating the file.
func WriteFile(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("AMAP_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("WECOM_CORPID"); v != "" {
		cfg.CorpID = v
	}
	if v := os.Getenv("WECOM_CORPSECRET"); v != "" {
		cfg.CorpSecret = v
	}
	if v := os.Getenv("WECOM_AGENTID"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid WECOM_AGENTID")
		}
		cfg.AgentID = id
	}
	return nil
}

// Validate reports the first missing or malformed setting.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("API_KEY is required")
	}
	if len(c.Areas) == 0 {
		return errors.New("areas must list at least one area")
	}
	for i, a := range c.Areas {
		if a.Name == "" || a.Adcode == "" {
			return fmt.Errorf("areas[%d] needs both name and adcode", i)
		}
	}
	if c.CorpID == "" {
		return errors.New("corpid is required")
	}
	if c.CorpSecret == "" {
		return errors.New("corpsecret is required")
	}
	if c.AgentID <= 0 {
		return errors.New("agentid must be a positive integer")
	}
	return nil
}
