package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported values for the enumerated settings.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"

	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"

	CompensationNone   = "none"
	CompensationDelete = "delete"
)

// ErrInvalidConfig wraps every validation failure reported by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Media    MediaConfig    `mapstructure:"media"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type ServerConfig struct {
	Address        string        `mapstructure:"address"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig selects the video store backend.
// DSN is used by the relational drivers, URI and Name by MongoDB.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	URI          string `mapstructure:"uri"`
	Name         string `mapstructure:"name"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type MediaConfig struct {
	Provider     string           `mapstructure:"provider"`
	VideoFolder  string           `mapstructure:"video_folder"`
	ImageFolder  string           `mapstructure:"image_folder"`
	Compensation string           `mapstructure:"compensation"`
	Timeout      time.Duration    `mapstructure:"timeout"`
	Cloudinary   CloudinaryConfig `mapstructure:"cloudinary"`
	S3           S3Config         `mapstructure:"s3"`
}

type CloudinaryConfig struct {
	CloudName    string `mapstructure:"cloud_name"`
	APIKey       string `mapstructure:"api_key"`
	APISecret    string `mapstructure:"api_secret"`
	APIBase      string `mapstructure:"api_base"`
	DeliveryBase string `mapstructure:"delivery_base"`
}

// Configured reports whether all three credentials are present.
func (c CloudinaryConfig) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

func (c CloudinaryConfig) partial() bool {
	set := 0
	for _, v := range []string{c.CloudName, c.APIKey, c.APISecret} {
		if v != "" {
			set++
		}
	}
	return set > 0 && set < 3
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// AuthConfig describes how session tokens issued by the identity provider are verified.
// Exactly one of JWTSecret (HS256) or PublicKeyPEM (RS256) is expected.
type AuthConfig struct {
	JWTSecret    string `mapstructure:"jwt_secret"`
	PublicKeyPEM string `mapstructure:"public_key_pem"`
	Issuer       string `mapstructure:"issuer"`
	CookieName   string `mapstructure:"cookie_name"`
	SignInURL    string `mapstructure:"sign_in_url"`
	SignUpURL    string `mapstructure:"sign_up_url"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, media.cloudinary.api_key -> MEDIA_CLOUDINARY_API_KEY
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return config, fmt.Errorf("reading config file: %w", err)
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decoding config: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "5m")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.max_upload_bytes", 100<<20)
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "file:cloudinary-saas.db?cache=shared")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "cloudinary_saas")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 10)

	v.SetDefault("media.provider", ProviderCloudinary)
	v.SetDefault("media.video_folder", "video-upload")
	v.SetDefault("media.image_folder", "social-share")
	v.SetDefault("media.compensation", CompensationNone)
	v.SetDefault("media.timeout", "2m")
	v.SetDefault("media.cloudinary.api_base", "https://api.cloudinary.com")
	v.SetDefault("media.cloudinary.delivery_base", "https://res.cloudinary.com")
	v.SetDefault("media.s3.use_ssl", true)

	// Keys without a default are invisible to AutomaticEnv during Unmarshal.
	for _, key := range []string{
		"media.cloudinary.cloud_name",
		"media.cloudinary.api_key",
		"media.cloudinary.api_secret",
		"media.s3.endpoint",
		"media.s3.region",
		"media.s3.access_key_id",
		"media.s3.secret_access_key",
		"media.s3.bucket_name",
		"auth.jwt_secret",
		"auth.public_key_pem",
		"auth.issuer",
	} {
		v.SetDefault(key, "")
	}

	v.SetDefault("auth.cookie_name", "__session")
	v.SetDefault("auth.sign_in_url", "/signin")
	v.SetDefault("auth.sign_up_url", "/signup")
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
		if c.Database.DSN == "" {
			return fmt.Errorf("%w: database.dsn is required for driver %q", ErrInvalidConfig, c.Database.Driver)
		}
	case DriverMongo:
		if c.Database.URI == "" || c.Database.Name == "" {
			return fmt.Errorf("%w: database.uri and database.name are required for mongo", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown database.driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	switch c.Media.Provider {
	case ProviderCloudinary:
		if c.Media.Cloudinary.partial() {
			return fmt.Errorf("%w: cloudinary cloud_name, api_key and api_secret must be set together", ErrInvalidConfig)
		}
	case ProviderS3:
		if c.Media.S3.BucketName == "" {
			return fmt.Errorf("%w: media.s3.bucket_name is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown media.provider %q", ErrInvalidConfig, c.Media.Provider)
	}

	switch c.Media.Compensation {
	case CompensationNone, CompensationDelete:
	default:
		return fmt.Errorf("%w: unknown media.compensation %q", ErrInvalidConfig, c.Media.Compensation)
	}

	if c.Auth.JWTSecret == "" && c.Auth.PublicKeyPEM == "" {
		return fmt.Errorf("%w: auth.jwt_secret or auth.public_key_pem is required", ErrInvalidConfig)
	}

	return nil
}
