// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/jittakal/sparkifylake/internal/config/dto"
	apperrors "github.com/jittakal/sparkifylake/internal/errors"
)

// Credential keys expected in the [AWS] section of the credentials file.
const (
	keyAccessKeyID     = "aws.aws_access_key_id"
	keySecretAccessKey = "aws.aws_secret_access_key"
)

// Loader handles configuration loading and validation.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SPARKIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// Load loads the optional application configuration from file and environment
// variables. A missing file is not an error; defaults apply.
func (l *Loader) Load(path string) (*dto.Config, error) {
	l.setDefaults()

	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			if _, statErr := os.Stat(path); statErr == nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var config dto.Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// LoadCredentials reads the storage-backend credentials file (INI format,
// [AWS] section). A missing file or an absent credential key is fatal; the
// job never falls back to ambient credentials.
func LoadCredentials(path string) (*dto.Credentials, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")

	if err := v.ReadInConfig(); err != nil {
		return nil, &apperrors.ConfigError{Path: path, Err: err}
	}

	creds := &dto.Credentials{
		AccessKeyID:     v.GetString(keyAccessKeyID),
		SecretAccessKey: v.GetString(keySecretAccessKey),
	}

	if creds.AccessKeyID == "" {
		return nil, &apperrors.ConfigError{Path: path, Key: "AWS_ACCESS_KEY_ID", Err: apperrors.ErrMissingCredentials}
	}
	if creds.SecretAccessKey == "" {
		return nil, &apperrors.ConfigError{Path: path, Key: "AWS_SECRET_ACCESS_KEY", Err: apperrors.ErrMissingCredentials}
	}

	return creds, nil
}

// setDefaults sets default configuration values.
func (l *Loader) setDefaults() {
	// Application defaults
	l.v.SetDefault("application.name", "sparkify-data-lake")
	l.v.SetDefault("application.version", "1.0.0")
	l.v.SetDefault("application.environment", "development")

	// AWS defaults
	l.v.SetDefault("aws.region", "us-west-2")

	// Storage defaults
	l.v.SetDefault("storage.format", "parquet")
	l.v.SetDefault("storage.compression", "")

	// Observability defaults
	l.v.SetDefault("observability.logging.level", "info")
	l.v.SetDefault("observability.logging.format", "text")
	l.v.SetDefault("observability.logging.output", "stderr")
	l.v.SetDefault("observability.metrics.enabled", false)
	l.v.SetDefault("observability.metrics.port", 9090)
}

// Validate validates the configuration.
func (l *Loader) Validate(config *dto.Config) error {
	if config.Storage.Format != "parquet" && config.Storage.Format != "avro" {
		return fmt.Errorf("unsupported storage format: %s", config.Storage.Format)
	}

	if config.AWS.Region == "" {
		return fmt.Errorf("aws.region is required")
	}

	if config.Observability.Metrics.Enabled {
		if config.Observability.Metrics.Port < 1 || config.Observability.Metrics.Port > 65535 {
			return fmt.Errorf("invalid metrics port: %d", config.Observability.Metrics.Port)
		}
	}

	return nil
}
