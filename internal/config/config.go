package config

import (
	"errors"
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"time"
)

var (
	ErrConfigNotLoaded = errors.New("config not loaded")
)

type Environment string

const (
	Production  Environment = "prod"
	Development Environment = "dev"
)

func (e *Environment) SetValue(s string) error {
	*e = Environment(s)
	return e.validate()
}

func (e Environment) validate() error {
	if e != Production && e != Development {
		return configNotLoadedErr(`only "prod" and "dev" environments are allowed`)
	}
	return nil
}

type Config struct {
	App struct {
		Env Environment `yaml:"env" env:"ENV" env-default:"dev"`
	} `yaml:"app" env-prefix:"APP_"`

	Server struct {
		Host         string        `yaml:"host" env:"HOST" env-default:"localhost"`
		Port         int           `yaml:"port" env:"PORT" env-default:"5000"`
		AllowOrigins []string      `yaml:"allow_origins" env:"ALLOW_ORIGINS" env-default:"*"`
		ShutdownWait time.Duration `yaml:"shutdown_wait" env:"SHUTDOWN_WAIT" env-default:"5s"`
	} `yaml:"server" env-prefix:"SERVER_"`

	Scale struct {
		Executable     string        `yaml:"executable" env:"EXECUTABLE" env-default:"scale"`
		Device         string        `yaml:"device" env:"DEVICE" env-default:"COM3"`
		Timeout        time.Duration `yaml:"timeout" env:"TIMEOUT" env-default:"15s"`
		FallbackWeight float64       `yaml:"fallback_weight" env:"FALLBACK_WEIGHT" env-default:"53.6"`
	} `yaml:"scale" env-prefix:"SCALE_"`

	Reports struct {
		Dir string `yaml:"dir" env:"DIR" env-default:"reports"`
	} `yaml:"reports" env-prefix:"REPORTS_"`
}

// Load reads filePath overlaid with the environment. An empty filePath reads
// the environment only.
func Load(filePath string) (*Config, error) {
	cfg := &Config{}
	var err error
	if filePath == "" {
		err = cleanenv.ReadEnv(cfg)
	} else {
		err = cleanenv.ReadConfig(filePath, cfg)
	}
	if err != nil {
		return nil, configNotLoadedErr("config not loaded: %w", err)
	}
	if err := cfg.App.Env.validate(); err != nil {
		return nil, err
	}
	if cfg.Scale.Timeout <= 0 {
		return nil, configNotLoadedErr("scale timeout must be positive, got %s", cfg.Scale.Timeout)
	}

	return cfg, nil
}

func MustLoad(filePath string) *Config {
	cfg, err := Load(filePath)
	if err != nil {
		panic(err)
	}
	return cfg
}

func configNotLoadedErr(format string, args ...any) error {
	return errors.Join(fmt.Errorf(format, args...), ErrConfigNotLoaded)
}
