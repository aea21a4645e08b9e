package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/csvclean/impute"
	"github.com/YuminosukeSato/csvclean/pkg/errors"
	"github.com/YuminosukeSato/csvclean/table"
)

// EnvPrefix prefixes every environment override, e.g. CSVCLEAN_LOG_LEVEL.
const EnvPrefix = "CSVCLEAN"

// Global configuration structure.
type Global struct {
	LogLevel         string  `mapstructure:"log_level" yaml:"log_level"`
	PreviewRows      int     `mapstructure:"preview_rows" yaml:"preview_rows"`
	MissingThreshold float64 `mapstructure:"missing_threshold" yaml:"missing_threshold"`

	// Model-based fill
	NEstimators  int     `mapstructure:"n_estimators" yaml:"n_estimators"`
	LearningRate float64 `mapstructure:"learning_rate" yaml:"learning_rate"`
	MaxDepth     int     `mapstructure:"max_depth" yaml:"max_depth"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Global {
	boost := impute.DefaultBoostParams()
	return &Global{
		LogLevel:         "info",
		PreviewRows:      table.DefaultPreviewRows,
		MissingThreshold: table.DefaultThreshold,
		NEstimators:      boost.NEstimators,
		LearningRate:     boost.LearningRate,
		MaxDepth:         boost.MaxDepth,
	}
}

// Boost returns the model-fill hyperparameters.
func (c *Global) Boost() impute.BoostParams {
	return impute.BoostParams{
		NEstimators:  c.NEstimators,
		LearningRate: c.LearningRate,
		MaxDepth:     c.MaxDepth,
	}
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve home dir")
	}
	return filepath.Join(home, ".csvclean"), nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "load %s", path)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. An explicit cfgFile must exist;
// ~/.csvclean/config.yaml is optional.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("preview_rows", d.PreviewRows)
	v.SetDefault("missing_threshold", d.MissingThreshold)
	v.SetDefault("n_estimators", d.NEstimators)
	v.SetDefault("learning_rate", d.LearningRate)
	v.SetDefault("max_depth", d.MaxDepth)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", cfgFile)
		}
	} else if dir, err := defaultDir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values no command can run with.
func (c *Global) Validate() error {
	if c.PreviewRows < 0 {
		return errors.NewValidationError("preview_rows", "must not be negative", c.PreviewRows)
	}
	if c.MissingThreshold < 0 || c.MissingThreshold > 100 {
		return errors.NewValidationError("missing_threshold", "must be within [0, 100]", c.MissingThreshold)
	}
	if c.NEstimators < 1 {
		return errors.NewValidationError("n_estimators", "must be at least 1", c.NEstimators)
	}
	if c.LearningRate <= 0 {
		return errors.NewValidationError("learning_rate", "must be positive", c.LearningRate)
	}
	if c.MaxDepth < 1 {
		return errors.NewValidationError("max_depth", "must be at least 1", c.MaxDepth)
	}
	return nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.csvclean/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "mkdir config dir")
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal yaml")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrap(err, "write config")
	}
	return nil
}
