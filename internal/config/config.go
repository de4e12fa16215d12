package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

type Config struct {
	Env             string        `mapstructure:"ENV"`
	Port            string        `mapstructure:"PORT"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	RedisURL        string        `mapstructure:"REDIS_URL"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	BcryptCost      int           `mapstructure:"BCRYPT_COST"`
	MistralAPIKey   string        `mapstructure:"MISTRAL_API_KEY"`
	MistralURL      string        `mapstructure:"MISTRAL_URL"`
	MistralModel    string        `mapstructure:"MISTRAL_MODEL"`
	AITimeout       time.Duration `mapstructure:"AI_TIMEOUT"`
	AIMaxAttempts   int           `mapstructure:"AI_MAX_ATTEMPTS"`
	AIBackoff       time.Duration `mapstructure:"AI_BACKOFF"`
	CORSAllowed     string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ACCESS_TOKEN_TTL", "60m")
	v.SetDefault("REFRESH_TOKEN_TTL", "24h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("MISTRAL_API_KEY", "")
	v.SetDefault("MISTRAL_URL", "https://api.mistral.ai/v1")
	v.SetDefault("MISTRAL_MODEL", "mistral-large-latest")
	v.SetDefault("AI_TIMEOUT", "10s")
	v.SetDefault("AI_MAX_ATTEMPTS", 3)
	v.SetDefault("AI_BACKOFF", "5s")
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// RequireJWTSecret fails when no token signing secret is configured.
func (c Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}
