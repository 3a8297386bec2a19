package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/jrschumacher/integrationhub/internal/logger"
	"github.com/spf13/viper"
)

const (
	EnvProd = "production"
	EnvDev  = "development"
	EnvTest = "test"
)

// Cache backends understood by cache.New.
const (
	CacheRedis  = "redis"
	CacheSQL    = "sql"
	CacheMemory = "memory"
)

// Config holds application configuration loaded from environment variables or config file.
type Config struct {
	AppEnv       string `mapstructure:"app_env" default:"development" validate:"required"`
	Port         string `mapstructure:"port" default:"8000" validate:"required"`
	PublicDomain string `mapstructure:"public_domain" default:"http://localhost:8000" validate:"required,url"`

	// Cache
	CacheBackend   string        `mapstructure:"cache_backend" default:"redis" validate:"required,oneof=redis sql memory"`
	RedisURL       string        `mapstructure:"redis_url" default:"redis://localhost:6379/0" validate:"required_if=CacheBackend redis"`
	RedisPassword  string        `secret:"true" mapstructure:"redis_password"`
	DatabaseURL    string        `secret:"true" mapstructure:"database_url" validate:"required_if=CacheBackend sql"`
	StateTTL       time.Duration `mapstructure:"state_ttl" default:"600s" validate:"gt=0"`
	CredentialsTTL time.Duration `mapstructure:"credentials_ttl" default:"600s" validate:"gt=0"`

	// Outbound HTTP and CORS
	HTTPTimeout        time.Duration `mapstructure:"http_timeout" default:"30s" validate:"gt=0"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins" default:"[\"http://localhost:3000\"]"`

	// Provider applications
	AirtableClientID     string `mapstructure:"airtable_client_id"`
	AirtableClientSecret string `secret:"true" mapstructure:"airtable_client_secret"`
	AirtableRedirectURI  string `mapstructure:"airtable_redirect_uri" validate:"omitempty,url"`
	NotionClientID       string `mapstructure:"notion_client_id"`
	NotionClientSecret   string `secret:"true" mapstructure:"notion_client_secret"`
	NotionRedirectURI    string `mapstructure:"notion_redirect_uri" validate:"omitempty,url"`
	HubSpotClientID      string `mapstructure:"hubspot_client_id"`
	HubSpotClientSecret  string `secret:"true" mapstructure:"hubspot_client_secret"`
	HubSpotRedirectURI   string `mapstructure:"hubspot_redirect_uri" validate:"omitempty,url"`

	// Logging
	LogLevel  string `mapstructure:"log_level" default:"INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
	LogFormat string `mapstructure:"log_format" default:"text" validate:"oneof=text json"`
}

// ProviderCredentials is the registered OAuth application for one provider.
type ProviderCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Load loads configuration from .env, config file and environment variables using viper.
func Load() *Config {
	cfg := Config{}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Could not load .env file", "error", err)
	}

	// Initialize viper
	v := viper.New()
	v.AutomaticEnv()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))

	// Set defaults for the config struct
	if err := defaults.Set(&cfg); err != nil {
		panic("failed to set struct defaults: " + err.Error())
	}

	// Bind env vars for each field
	typeOfCfg := reflect.TypeOf(cfg)
	for i := 0; i < typeOfCfg.NumField(); i++ {
		field := typeOfCfg.Field(i)
		key := field.Tag.Get("mapstructure")
		if key == "" {
			key = toSnakeCase(field.Name)
		}
		_ = v.BindEnv(key)
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logger.Error("Error read config file", "error", err)
		}
		logger.Warn("No config file found, using environment variables")
	}

	if err := v.Unmarshal(&cfg); err != nil {
		logger.Warn("Could not unmarshal config", "error", err)
	}

	logger.Info("Loaded config", "config", cfg.String())

	return &cfg
}

// Validate checks the struct tags on cfg.
func Validate(cfg *Config) error {
	validate := validator.New()
	return validate.Struct(cfg)
}

// Provider returns the OAuth application registered for name. An empty redirect
// URI falls back to the callback route under PublicDomain.
func (c *Config) Provider(name string) ProviderCredentials {
	var pc ProviderCredentials
	switch name {
	case "airtable":
		pc = ProviderCredentials{c.AirtableClientID, c.AirtableClientSecret, c.AirtableRedirectURI}
	case "notion":
		pc = ProviderCredentials{c.NotionClientID, c.NotionClientSecret, c.NotionRedirectURI}
	case "hubspot":
		pc = ProviderCredentials{c.HubSpotClientID, c.HubSpotClientSecret, c.HubSpotRedirectURI}
	}
	if pc.RedirectURI == "" {
		pc.RedirectURI = fmt.Sprintf("%s/integrations/%s/oauth2callback", strings.TrimRight(c.PublicDomain, "/"), name)
	}
	return pc
}

// IsDevelopment reports whether the app runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDev
}

// String returns a string representation of the config with secret fields redacted.
func (c *Config) String() string {
	v := reflect.ValueOf(*c)
	t := reflect.TypeOf(*c)
	var sb strings.Builder
	sb.WriteString("Config{")
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Name
		value := v.Field(i).Interface()
		if field.Tag.Get("secret") == "true" {
			value = "***REDACTED***"
		}
		sb.WriteString(name + ": " + toString(value))
		if i < t.NumField()-1 {
			sb.WriteString(", ")
		}
	}
	sb.WriteString("}")
	return sb.String()
}

// toString converts interface{} to string for String
func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// toSnakeCase converts CamelCase to snake_case
func toSnakeCase(str string) string {
	runes := []rune(str)
	var out []rune
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsUpper(prev) || nextLower {
				out = append(out, '_')
			}
		}
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}
