package dto

// Config is the root application configuration structure. Everything here is
// optional and defaulted; the only required configuration is the credentials
// file loaded separately by the config loader.
type Config struct {
	Application   ApplicationInfo     `mapstructure:"application"`
	AWS           AWSConfig           `mapstructure:"aws"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// ApplicationInfo contains application metadata.
type ApplicationInfo struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// AWSConfig contains non-secret AWS settings. Credentials come from the
// credentials file, never from here.
type AWSConfig struct {
	Region string `mapstructure:"region"`
}

// StorageConfig contains output format settings.
type StorageConfig struct {
	Format      string `mapstructure:"format"`
	Compression string `mapstructure:"compression"`
}

// ObservabilityConfig contains logging and metrics settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// Credentials holds the storage-backend credentials read from the local
// credentials file (dl.cfg). Both fields are required.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}
