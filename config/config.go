package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backend names accepted by BACKEND_AUTH and BACKEND_STORE
const (
	BackendMemory     = "memory"
	BackendFirebase   = "firebase"
	BackendSelfHosted = "selfhosted"
	BackendPostgres   = "postgres"
	BackendMongo      = "mongo"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Firebase FirebaseConfig
	DB       DBConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Session  SessionConfig
}

type AppConfig struct {
	Port       string
	Env        string
	LogLevel   string
	CORSOrigin string
}

type BackendConfig struct {
	Auth  string
	Store string
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
	APIKey          string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// URL returns the connection URL used by the migrator
func (c DBConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type SessionConfig struct {
	// CheckSpec is the cron spec of the session expiry check; empty disables it
	CheckSpec  string
	Persist    bool
	RedisKey   string
	WaitOnBoot time.Duration
}

var ErrUnknownBackend = errors.New("unknown backend")

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGIN", "*")
	v.SetDefault("BACKEND_AUTH", BackendMemory)
	v.SetDefault("BACKEND_STORE", BackendMemory)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "docapp")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("JWT_ACCESS_EXPIRY", "1h")
	v.SetDefault("SESSION_CHECK_SPEC", "@every 1m")
	v.SetDefault("SESSION_PERSIST", true)
	v.SetDefault("SESSION_REDIS_KEY", "docapp:session")
	v.SetDefault("SESSION_WAIT_ON_BOOT", "10s")
}

// LoadConfig reads .env when present, then the environment
func LoadConfig() (*Config, error) {
	return load(".env")
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = time.Hour
	}

	waitOnBoot, err := time.ParseDuration(v.GetString("SESSION_WAIT_ON_BOOT"))
	if err != nil {
		waitOnBoot = 10 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Port:       v.GetString("APP_PORT"),
			Env:        v.GetString("APP_ENV"),
			LogLevel:   v.GetString("LOG_LEVEL"),
			CORSOrigin: v.GetString("CORS_ALLOWED_ORIGIN"),
		},
		Backend: BackendConfig{
			Auth:  strings.ToLower(v.GetString("BACKEND_AUTH")),
			Store: strings.ToLower(v.GetString("BACKEND_STORE")),
		},
		Firebase: FirebaseConfig{
			ProjectID:       v.GetString("FIREBASE_PROJECT_ID"),
			CredentialsFile: v.GetString("FIREBASE_CREDENTIALS_FILE"),
			APIKey:          v.GetString("FIREBASE_API_KEY"),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Session: SessionConfig{
			CheckSpec:  v.GetString("SESSION_CHECK_SPEC"),
			Persist:    v.GetBool("SESSION_PERSIST"),
			RedisKey:   v.GetString("SESSION_REDIS_KEY"),
			WaitOnBoot: waitOnBoot,
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.Backend.Auth {
	case BackendMemory, BackendFirebase, BackendSelfHosted:
	default:
		return fmt.Errorf("%w: BACKEND_AUTH=%q", ErrUnknownBackend, c.Backend.Auth)
	}
	switch c.Backend.Store {
	case BackendMemory, BackendFirebase, BackendPostgres, BackendMongo:
	default:
		return fmt.Errorf("%w: BACKEND_STORE=%q", ErrUnknownBackend, c.Backend.Store)
	}
	if c.Backend.Auth == BackendSelfHosted && c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required for the selfhosted auth backend")
	}
	if c.Backend.Auth == BackendFirebase && c.Firebase.APIKey == "" {
		return errors.New("FIREBASE_API_KEY is required for the firebase auth backend")
	}
	return nil
}

// UsesPostgres reports whether any selected backend needs the database
func (c *Config) UsesPostgres() bool {
	return c.Backend.Store == BackendPostgres || c.Backend.Auth == BackendSelfHosted
}

// UsesRedis reports whether any selected component needs Redis
func (c *Config) UsesRedis() bool {
	return c.Backend.Auth == BackendSelfHosted ||
		(c.Session.Persist && c.Backend.Auth == BackendFirebase)
}

// UsesFirebase reports whether the Firebase app must be initialized
func (c *Config) UsesFirebase() bool {
	return c.Backend.Auth == BackendFirebase || c.Backend.Store == BackendFirebase
}
