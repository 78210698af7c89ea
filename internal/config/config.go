package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	// timezones resolve without system zoneinfo
	_ "time/tzdata"

	"github.com/flexprice/invoicer/internal/types"
	"github.com/flexprice/invoicer/internal/validator"
	govalidator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Server  ServerConfig  `validate:"required"`
	Logging LoggingConfig `validate:"required"`
	Stripe  StripeConfig  `validate:"required"`
	Invoice InvoiceConfig `validate:"required"`
	PDF     PDFConfig
	Cache   CacheConfig
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key" validate:"required"`
}

// InvoiceConfig holds the static invoice configuration merged under caller
// overrides on every generated document.
type InvoiceConfig struct {
	// Static is the process-wide layer of invoice fields (labels, company name, logo...)
	Static       map[string]any `mapstructure:"static"`
	TemplatePath string         `mapstructure:"template_path" validate:"required"`
	Stylesheets  []string       `mapstructure:"stylesheets" validate:"len=2"`
	Timezone     string         `mapstructure:"timezone"`
}

type PDFConfig struct {
	// BinaryPath points at the wkhtmltopdf executable, empty means lookup on PATH
	BinaryPath string `mapstructure:"binary_path"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	LogoTTL time.Duration `mapstructure:"logo_ttl"`
}

// NewConfig loads and validates the configuration
func NewConfig(v *govalidator.Validate) (*Configuration, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	if err := config.Validate(v); err != nil {
		return nil, err
	}

	return config, nil
}

// Load reads the configuration without validating it, so callers can apply
// their own overrides first
func Load() (*Configuration, error) {
	// a missing .env file is fine, real deployments use the environment directly
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath("/etc/invoicer")

	v.SetEnvPrefix("INVOICER")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("invoice.template_path", "assets/templates/invoice.html")
	v.SetDefault("invoice.stylesheets", []string{"assets/css/invoice.css", "assets/css/layout.css"})
	v.SetDefault("invoice.timezone", "UTC")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.logo_ttl", 30*time.Minute)
	// AutomaticEnv only resolves keys viper already knows about
	v.SetDefault("stripe.secret_key", "")
}

// Validate checks the loaded configuration with the shared validator
func (c Configuration) Validate(v *govalidator.Validate) error {
	return validator.Struct(v, c, "invalid configuration")
}

// Location resolves the configured timezone, falling back to UTC
func (c InvoiceConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
