package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/san-kum/eqsolve/internal/resolver"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultInitialGuess  = 1.0
	DefaultStep          = 1e-7
	DefaultTolerance     = 1e-10
	DefaultMaxIterations = 100
	DefaultMinDerivative = 1e-12
	DefaultPrecision     = resolver.DisplayPrecision
	DefaultDataDir       = ".eqsolve"
	DefaultAddr          = ":8080"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"

	EnvPrefix = "EQSOLVE"
)

type Config struct {
	Solver      SolverConfig `yaml:"solver" mapstructure:"solver"`
	DataDir     string       `yaml:"data_dir" mapstructure:"data_dir" validate:"required"`
	CatalogPath string       `yaml:"catalog_path" mapstructure:"catalog_path"`
	Log         LogConfig    `yaml:"log" mapstructure:"log"`
	Server      ServerConfig `yaml:"server" mapstructure:"server"`
}

type SolverConfig struct {
	InitialGuess  float64 `yaml:"initial_guess" mapstructure:"initial_guess"`
	Step          float64 `yaml:"step" mapstructure:"step" validate:"gt=0"`
	Tolerance     float64 `yaml:"tolerance" mapstructure:"tolerance" validate:"gt=0"`
	MaxIterations int     `yaml:"max_iterations" mapstructure:"max_iterations" validate:"gt=0,lte=100000"`
	MinDerivative float64 `yaml:"min_derivative" mapstructure:"min_derivative" validate:"gte=0"`
	RelativeStep  bool    `yaml:"relative_step" mapstructure:"relative_step"`
	Precision     int     `yaml:"precision" mapstructure:"precision" validate:"gte=0,lte=15"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=text json"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr" validate:"required"`
}

func DefaultConfig() *Config {
	return &Config{
		Solver:  DefaultSolver(),
		DataDir: DefaultDataDir,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

func DefaultSolver() SolverConfig {
	return SolverConfig{
		InitialGuess:  DefaultInitialGuess,
		Step:          DefaultStep,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		MinDerivative: DefaultMinDerivative,
		Precision:     DefaultPrecision,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadLayered builds the config from defaults, then the YAML file at path
// if one is given, then EQSOLVE_* environment variables.
func LoadLayered(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("solver.initial_guess", cfg.Solver.InitialGuess)
	v.SetDefault("solver.step", cfg.Solver.Step)
	v.SetDefault("solver.tolerance", cfg.Solver.Tolerance)
	v.SetDefault("solver.max_iterations", cfg.Solver.MaxIterations)
	v.SetDefault("solver.min_derivative", cfg.Solver.MinDerivative)
	v.SetDefault("solver.relative_step", cfg.Solver.RelativeStep)
	v.SetDefault("solver.precision", cfg.Solver.Precision)
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("catalog_path", cfg.CatalogPath)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("server.addr", cfg.Server.Addr)
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: validation failed: %w", err)
	}
	return nil
}

// Options converts the solver section into resolver options.
func (s SolverConfig) Options() resolver.Options {
	return resolver.Options{
		InitialGuess:  s.InitialGuess,
		Step:          s.Step,
		Tolerance:     s.Tolerance,
		MaxIterations: s.MaxIterations,
		MinDerivative: s.MinDerivative,
		RelativeStep:  s.RelativeStep,
	}
}

// Resolver builds a resolver from the solver section.
func (s SolverConfig) Resolver() (*resolver.Resolver, error) {
	return resolver.New(s.Options())
}
