// Package config loads generator settings from .fieldproj.yaml, FIELDPROJ_*
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"field-projection/internal/gen"
	"field-projection/internal/plan"
)

const (
	configFileName = ".fieldproj"
	configFileType = "yaml"
	envPrefix      = "FIELDPROJ"
)

// Config keys. Flags bound with BindFlags use the same names with dashes.
const (
	KeySchema        = "schema"
	KeyOutput        = "output"
	KeyFilename      = "filename"
	KeyRuntimeImport = "runtime_import"
	KeyComments      = "comments"
	KeyStrict        = "strict"
	KeyLogLevel      = "log_level"
	KeyLogDev        = "log_dev"
)

// Config holds the resolved settings.
type Config struct {
	// Schema is the path of an optional schema file.
	Schema string `mapstructure:"schema"`
	// Output overrides the directory generated files are written to.
	Output string `mapstructure:"output"`
	// Filename is the name of the generated file in each package.
	Filename string `mapstructure:"filename"`
	// RuntimeImport is the import path of the projection runtime.
	RuntimeImport string `mapstructure:"runtime_import"`
	// Comments enables explanatory comments in generated code.
	Comments bool `mapstructure:"comments"`
	// Strict reports warnings as errors.
	Strict bool `mapstructure:"strict"`
	// LogLevel is a zap level name.
	LogLevel string `mapstructure:"log_level"`
	// LogDev selects zap's development logger.
	LogDev bool `mapstructure:"log_dev"`
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeySchema, "")
	v.SetDefault(KeyOutput, "")
	v.SetDefault(KeyFilename, gen.DefaultFilename)
	v.SetDefault(KeyRuntimeImport, gen.DefaultRuntimeImport)
	v.SetDefault(KeyComments, true)
	v.SetDefault(KeyStrict, false)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogDev, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the configuration. An explicit configFile must exist; otherwise
// .fieldproj.yaml is looked up in searchDir and a missing file is not an
// error.
func Load(v *viper.Viper, configFile, searchDir string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if searchDir == "" {
			searchDir = "."
		}

		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(searchDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

// File returns the config file that was read, if any.
func File(v *viper.Viper) string {
	return v.ConfigFileUsed()
}

// Generator maps the configuration onto the generator settings.
func (c *Config) Generator() gen.GeneratorConfig {
	return gen.GeneratorConfig{
		OutputDir:        c.Output,
		Filename:         c.Filename,
		RuntimeImport:    c.RuntimeImport,
		GenerateComments: c.Comments,
	}
}

// Plan maps the configuration onto the planner settings.
func (c *Config) Plan() plan.Config {
	return plan.Config{
		RuntimePath: c.RuntimeImport,
		Strict:      c.Strict,
	}
}
