package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Service   ServiceConfig   `yaml:"service" toml:"service"`
	Session   SessionConfig   `yaml:"session" toml:"session"`
	Content   ContentConfig   `yaml:"content" toml:"content"`
	Console   ConsoleConfig   `yaml:"console" toml:"console"`
	Prefs     PrefsConfig     `yaml:"prefs" toml:"prefs"`
	Media     MediaConfig     `yaml:"media" toml:"media"`
	DevServer DevServerConfig `yaml:"devserver" toml:"devserver"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

type ServiceConfig struct {
	BaseURL string        `yaml:"base_url" toml:"base_url" default:"http://localhost:12600"`
	Timeout time.Duration `yaml:"timeout" toml:"timeout" default:"15s"`
}

type SessionConfig struct {
	Username string `yaml:"username" toml:"username" default:""`
	Password string `yaml:"password" toml:"password" default:""`
}

type ContentConfig struct {
	Language           string   `yaml:"language" toml:"language" default:"en"`
	SupportedLanguages []string `yaml:"supported_languages" toml:"supported_languages" default:"en,es,pt"`
	MaxCollagePhotos   int      `yaml:"max_collage_photos" toml:"max_collage_photos" default:"6"`
}

type ConsoleConfig struct {
	// Ordering is either OrderingLastResponse or OrderingLatestRequest.
	Ordering   string `yaml:"ordering" toml:"ordering" default:"last_response"`
	SeedPolicy string `yaml:"seed_policy" toml:"seed_policy" default:"overwrite"`
}

type PrefsConfig struct {
	Enabled     bool   `yaml:"enabled" toml:"enabled" default:"true"`
	Path        string `yaml:"path" toml:"path" default:""`
	Compression string `yaml:"compression" toml:"compression" default:"zstd"`
}

type MediaConfig struct {
	S3 S3Config `yaml:"s3" toml:"s3"`
}

type S3Config struct {
	Endpoint        string `yaml:"endpoint" toml:"endpoint" default:""`
	Region          string `yaml:"region" toml:"region" default:"auto"`
	Bucket          string `yaml:"bucket" toml:"bucket" default:""`
	AccessKeyID     string `yaml:"access_key_id" toml:"access_key_id" default:""`
	AccessKeySecret string `yaml:"access_key_secret" toml:"access_key_secret" default:""`
}

type DevServerConfig struct {
	Addr       string        `yaml:"addr" toml:"addr" default:"127.0.0.1:12600"`
	Username   string        `yaml:"username" toml:"username" default:"admin"`
	Password   string        `yaml:"password" toml:"password" default:"admin"`
	SessionTTL time.Duration `yaml:"session_ttl" toml:"session_ttl" default:"24h"`
}

type LoggingConfig struct {
	Level string `yaml:"level" toml:"level" default:"info"`
}

var AppConfig *Config

// LoadConfig reads a YAML or TOML file (by extension) on top of the struct
// defaults, applies environment overrides and validates the result.
func LoadConfig(path string) error {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just use defaults
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	} else if err := decode(path, data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyEnv(config)

	if err := config.Validate(); err != nil {
		return err
	}

	AppConfig = config
	return nil
}

func decode(path string, data []byte, config *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(string(data), config)
		return err
	default:
		return yaml.Unmarshal(data, config)
	}
}

// ApplyEnv overrides file values with HOMEADMIN_* environment variables.
func ApplyEnv(config *Config) {
	overrides := []struct {
		env   string
		field *string
	}{
		{EnvBaseURL, &config.Service.BaseURL},
		{EnvUsername, &config.Session.Username},
		{EnvPassword, &config.Session.Password},
		{EnvLanguage, &config.Content.Language},
		{EnvLogLevel, &config.Logging.Level},
		{EnvS3Endpoint, &config.Media.S3.Endpoint},
		{EnvS3Bucket, &config.Media.S3.Bucket},
		{EnvS3AccessKeyID, &config.Media.S3.AccessKeyID},
		{EnvS3AccessKeySecret, &config.Media.S3.AccessKeySecret},
	}

	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok && v != "" {
			*o.field = v
		}
	}
}

func (c *Config) Validate() error {
	switch c.Console.Ordering {
	case OrderingLastResponse, OrderingLatestRequest:
	default:
		return fmt.Errorf("invalid console ordering %q", c.Console.Ordering)
	}

	switch c.Console.SeedPolicy {
	case SeedPolicyOverwrite, SeedPolicyPreserveUnsaved:
	default:
		return fmt.Errorf("invalid console seed policy %q", c.Console.SeedPolicy)
	}

	switch c.Prefs.Compression {
	case CompressionZstd, CompressionGzip, CompressionNone:
	default:
		return fmt.Errorf("invalid prefs compression %q", c.Prefs.Compression)
	}

	if c.Content.MaxCollagePhotos <= 0 {
		return fmt.Errorf("max_collage_photos must be positive, got %d", c.Content.MaxCollagePhotos)
	}

	if c.Service.BaseURL == "" {
		return fmt.Errorf("service base_url is required")
	}

	return nil
}

// PrefsPath returns the configured preferences database path, defaulting to
// the user cache directory.
func (c *Config) PrefsPath() string {
	if c.Prefs.Path != "" {
		return c.Prefs.Path
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "homeadmin", PrefsFileName)
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int64:
			if field.Type() == reflect.TypeOf(time.Duration(0)) {
				if val, err := time.ParseDuration(defaultValue); err == nil {
					field.SetInt(int64(val))
				}
				continue
			}
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
