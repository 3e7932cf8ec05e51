package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration, loaded once at startup.
type Config struct {
	Env  string `mapstructure:"APP_ENV"`
	Port int    `mapstructure:"SERVER_PORT"`

	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     int    `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSL_MODE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	S3Region          string `mapstructure:"S3_REGION"`
	S3Bucket          string `mapstructure:"S3_BUCKET"`
	S3AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`
	S3Endpoint        string `mapstructure:"S3_ENDPOINT"`
}

var (
	instance *Config
	once     sync.Once
)

// Load reads .env (if present) and environment variables into the singleton.
func Load() (*Config, error) {
	var err error
	once.Do(func() {
		// .env is optional; real deployments use environment variables
		_ = godotenv.Load()

		v := viper.New()
		v.AutomaticEnv()
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

		v.SetDefault("APP_ENV", "development")
		v.SetDefault("SERVER_PORT", 7070)
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("DB_HOST", "localhost")
		v.SetDefault("DB_PORT", 5432)
		v.SetDefault("DB_USER", "postgres")
		v.SetDefault("DB_PASSWORD", "postgres")
		v.SetDefault("DB_NAME", "agreetime")
		v.SetDefault("DB_SSL_MODE", "disable")
		v.SetDefault("REDIS_ADDR", "localhost:6379")
		v.SetDefault("REDIS_PASSWORD", "")
		v.SetDefault("REDIS_DB", 0)
		v.SetDefault("JWT_SECRET", "")
		v.SetDefault("S3_REGION", "ap-southeast-1")
		v.SetDefault("S3_BUCKET", "agreetime-attachments")
		v.SetDefault("S3_ACCESS_KEY_ID", "")
		v.SetDefault("S3_SECRET_ACCESS_KEY", "")
		v.SetDefault("S3_ENDPOINT", "")

		// Bind explicitly so AutomaticEnv picks keys up without a config file
		for _, key := range []string{
			"APP_ENV", "SERVER_PORT", "LOG_LEVEL",
			"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
			"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
			"JWT_SECRET",
			"S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY", "S3_ENDPOINT",
		} {
			_ = v.BindEnv(key)
		}

		cfg := &Config{}
		if unmarshalErr := v.Unmarshal(cfg); unmarshalErr != nil {
			err = fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
			return
		}
		instance = cfg
	})

	if err != nil {
		return nil, err
	}
	return instance, nil
}

// Get returns the loaded configuration. Load must have been called first.
func Get() *Config {
	return instance
}
