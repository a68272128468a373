// Package config loads the application configuration from defaults, command
// line flags, a .env file and environment variables, in that order of
// increasing priority, and validates the result.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the server.
type Config struct {
	RunAddr          string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	LogLevel         string        `env:"LOG_LEVEL" validate:"loglevel"`
	DataDir          string        `env:"DATA_DIR" validate:"required"`
	PredictorURL     string        `env:"PREDICTOR_URL" validate:"url"`
	PredictorTimeout time.Duration `env:"PREDICTOR_TIMEOUT"`
	BcryptCost       int           `env:"BCRYPT_COST"`
}

var defaultConfig = Config{
	RunAddr:          ":8080",
	LogLevel:         "info",
	DataDir:          "data",
	PredictorURL:     "http://localhost:5000/predict",
	PredictorTimeout: 10 * time.Second,
	BcryptCost:       0,
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[fieldLevel.Field().String()]
}

func (c *Config) validateConfig() error {
	validate := validator.New()

	if err := validate.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return err
	}

	return validate.Struct(c)
}

// InitOption tweaks how New assembles the configuration.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing disables command line flag parsing; used by tests,
// which own the flag set.
func WithDisableFlagsParsing(disable bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disable
	}
}

func applyDefaults(values *Config, defaults Config) {
	*values = defaults
}

// New assembles and validates the configuration.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	values := &Config{}
	applyDefaults(values, defaultConfig)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Unable to load .env file: %v", err)
	}

	if !options.disableFlagsParsing {
		flag.StringVar(&values.RunAddr, "a", values.RunAddr, "address and port to run server")
		flag.StringVar(&values.LogLevel, "l", values.LogLevel, "logger level")
		flag.StringVar(&values.DataDir, "s", values.DataDir, "directory holding the JSON collection files")
		flag.StringVar(&values.PredictorURL, "p", values.PredictorURL, "mood prediction service URL")
		flag.DurationVar(&values.PredictorTimeout, "t", values.PredictorTimeout, "mood prediction request timeout")
		flag.Parse()
	}

	var valuesFromEnv Config
	if err := env.Parse(&valuesFromEnv); err != nil {
		return nil, err
	}

	if valuesFromEnv.RunAddr != "" {
		values.RunAddr = valuesFromEnv.RunAddr
	}
	if valuesFromEnv.LogLevel != "" {
		values.LogLevel = valuesFromEnv.LogLevel
	}
	if valuesFromEnv.DataDir != "" {
		values.DataDir = valuesFromEnv.DataDir
	}
	if valuesFromEnv.PredictorURL != "" {
		values.PredictorURL = valuesFromEnv.PredictorURL
	}
	if valuesFromEnv.PredictorTimeout != 0 {
		values.PredictorTimeout = valuesFromEnv.PredictorTimeout
	}
	if valuesFromEnv.BcryptCost != 0 {
		values.BcryptCost = valuesFromEnv.BcryptCost
	}

	return values, values.validateConfig()
}
