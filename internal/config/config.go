// internal/config/config.go
package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	BaseURL  string `mapstructure:"base_url"`
	Port     string `mapstructure:"port"`
	Database struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`
	Redis struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"redis"`
	Auth struct {
		// JWTSecret verifies the hosted provider's HS256 access tokens.
		JWTSecret string `mapstructure:"jwt_secret"`
		// ProjectRef names the session cookie: sb-<project_ref>-auth-token.
		ProjectRef string `mapstructure:"project_ref"`
	} `mapstructure:"auth"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
}

func Load() Config {
	viper.SetDefault("port", "8080")
	viper.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	_ = viper.ReadInConfig()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// explicit bindings
	_ = viper.BindEnv("base_url", "BASE_URL")
	_ = viper.BindEnv("port", "PORT")
	_ = viper.BindEnv("database.url", "DATABASE_URL")
	_ = viper.BindEnv("redis.url", "REDIS_URL")
	_ = viper.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	_ = viper.BindEnv("auth.project_ref", "AUTH_PROJECT_REF")

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		panic("config error: " + err.Error())
	}
	if c.Database.URL == "" {
		panic("config error: database.url/DATABASE_URL required")
	}
	if c.Auth.JWTSecret == "" {
		panic("config error: auth.jwt_secret/AUTH_JWT_SECRET required")
	}
	return c
}
