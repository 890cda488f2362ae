// Package config loads the immutable process configuration from the
// environment and an optional config file.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/sesrelay/pkg/errx"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the root configuration. It is read once at startup.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	AWSEmail AWSEmailConfig `mapstructure:"aws_email"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            string        `mapstructure:"port" validate:"required"`
	BodyLimit       int           `mapstructure:"body_limit" validate:"gt=0"`
	CORSOrigins     string        `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AWSEmailConfig is the sender plus SES connection settings.
type AWSEmailConfig struct {
	Sender           string `mapstructure:"sender" validate:"required,email"`
	Provider         string `mapstructure:"provider" validate:"oneof=ses console"`
	Region           string `mapstructure:"region" validate:"required_if=Provider ses"`
	AccessKeyID      string `mapstructure:"access_key_id" validate:"required_with=SecretAccessKey"`
	SecretAccessKey  string `mapstructure:"secret_access_key" validate:"required_with=AccessKeyID"`
	Endpoint         string `mapstructure:"endpoint" validate:"omitempty,url"`
	ConfigurationSet string `mapstructure:"configuration_set"`
}

// StorageConfig selects where attachment paths are resolved.
type StorageConfig struct {
	Mode   string `mapstructure:"mode" validate:"oneof=local s3"`
	Root   string `mapstructure:"root" validate:"required_if=Mode local"`
	Bucket string `mapstructure:"bucket" validate:"required_if=Mode s3"`
	Prefix string `mapstructure:"prefix"`
	Region string `mapstructure:"region"`
}

var configErrors = errx.NewRegistry("CONFIG")

var (
	ErrRead    = configErrors.Register("READ", errx.TypeInternal, http.StatusInternalServerError, "Failed to read configuration")
	ErrInvalid = configErrors.Register("INVALID", errx.TypeValidation, http.StatusBadRequest, "Invalid configuration")
)

var defaults = map[string]any{
	"server.port":                 "8080",
	"server.body_limit":           10 * 1024 * 1024,
	"server.cors_origins":         "*",
	"server.shutdown_timeout":     "30s",
	"aws_email.sender":            "",
	"aws_email.provider":          "ses",
	"aws_email.region":            "us-east-1",
	"aws_email.access_key_id":     "",
	"aws_email.secret_access_key": "",
	"aws_email.endpoint":          "",
	"aws_email.configuration_set": "",
	"storage.mode":                "local",
	"storage.root":                "/",
	"storage.bucket":              "",
	"storage.prefix":              "",
	"storage.region":              "",
}

// Load reads configuration from environment variables (AWS_EMAIL_SENDER,
// SERVER_PORT, STORAGE_MODE, ...) layered over file when file is not empty.
func Load(file string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// PORT is the conventional override on most platforms
	if err := v.BindEnv("server.port", "SERVER_PORT", "PORT"); err != nil {
		return nil, configErrors.NewWithCause(ErrRead, err)
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, configErrors.NewWithCause(ErrRead, err).WithDetail("file", file)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configErrors.NewWithCause(ErrRead, err)
	}

	if cfg.Storage.Region == "" {
		cfg.Storage.Region = cfg.AWSEmail.Region
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct constraints and reports every failing field.
func (c *Config) Validate() error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return configErrors.NewWithCause(ErrInvalid, err)
	}

	e := configErrors.New(ErrInvalid)
	for _, fe := range verrs {
		e.WithDetail(fe.Namespace(), fmt.Sprintf("failed on '%s'", fe.Tag()))
	}
	return e
}

// Address returns the listen address.
func (s ServerConfig) Address() string {
	return ":" + s.Port
}
