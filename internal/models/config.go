package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider" validate:"omitempty,oneof=s3"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name" validate:"required_with=Provider"`
}

type Config struct {
	// recommendation source
	APIKey         string        `mapstructure:"api_key"`
	Source         string        `mapstructure:"source" validate:"oneof=gemini synthetic"`
	Model          string        `mapstructure:"model" validate:"required"`
	BatchSize      int           `mapstructure:"batch_size" validate:"gt=0"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	Seed           int           `mapstructure:"seed"`

	// circuit breaker around the remote source
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures" validate:"gt=0"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout" validate:"gt=0"`

	// queue
	LowWaterMark int `mapstructure:"low_water_mark" validate:"gt=0"`

	// location
	DefaultLatitude  float64 `mapstructure:"default_latitude" validate:"gte=-90,lte=90"`
	DefaultLongitude float64 `mapstructure:"default_longitude" validate:"gte=-180,lte=180"`
	LocationEnabled  bool    `mapstructure:"location_enabled"`
	Latitude         float64 `mapstructure:"latitude" validate:"gte=-90,lte=90"`
	Longitude        float64 `mapstructure:"longitude" validate:"gte=-180,lte=180"`

	// session
	Username string `mapstructure:"username"`

	// logging
	LogLevel  string `mapstructure:"log_level" validate:"oneof=trace debug info warn error disabled"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=json console"`

	// swipe analytics output
	OutputDestination string             `mapstructure:"output_destination" validate:"oneof=none console json parquet kafka"`
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	KafkaBrokerList   string             `mapstructure:"kafka_broker_list" validate:"required_if=OutputDestination kafka"`
	KafkaTopic        string             `mapstructure:"kafka_topic"`
	SessionTimeoutMs  int                `mapstructure:"session_timeout_ms"`
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`
}

var validate = validator.New()

// SetDefaults registers default values on v. Flags bound later override them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("source", SourceGemini)
	v.SetDefault("model", "gemini-2.5-flash")
	v.SetDefault("batch_size", 5)
	v.SetDefault("request_timeout", "30s")
	v.SetDefault("breaker_max_failures", 3)
	v.SetDefault("breaker_timeout", "30s")
	v.SetDefault("low_water_mark", 2)
	v.SetDefault("default_latitude", DefaultLocation.Lat)
	v.SetDefault("default_longitude", DefaultLocation.Lon)
	v.SetDefault("location_enabled", false)
	v.SetDefault("latitude", 0.0)
	v.SetDefault("longitude", 0.0)
	v.SetDefault("username", "")
	v.SetDefault("seed", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("output_destination", "none")
	v.SetDefault("output_path", ".")
	v.SetDefault("output_folder", "events")
	v.SetDefault("kafka_broker_list", "")
	v.SetDefault("kafka_topic", "swipe_events")
	v.SetDefault("session_timeout_ms", 0)
	v.SetDefault("cloud_storage.provider", "")
	v.SetDefault("cloud_storage.region", "")
	v.SetDefault("cloud_storage.bucket_name", "")
}

// LoadConfig reads cfgFile (when set), the environment and any bound flags from v.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("foodswipe")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	// the recommendation credential is also honoured under its conventional names
	if config.APIKey == "" {
		config.APIKey = firstEnv(v, "GEMINI_API_KEY", "API_KEY")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks field ranges and enumerations.
func (cfg *Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// UserLocation returns the configured coordinate, or nil when location is disabled.
func (cfg *Config) UserLocation() *Location {
	if !cfg.LocationEnabled {
		return nil
	}
	return &Location{Lat: cfg.Latitude, Lon: cfg.Longitude}
}

// FallbackLocation is the coordinate substituted when the user's is unknown.
func (cfg *Config) FallbackLocation() Location {
	return Location{Lat: cfg.DefaultLatitude, Lon: cfg.DefaultLongitude}
}

func firstEnv(v *viper.Viper, keys ...string) string {
	for _, key := range keys {
		_ = v.BindEnv(strings.ToLower(key), key)
		if val := v.GetString(strings.ToLower(key)); val != "" {
			return val
		}
	}
	return ""
}
