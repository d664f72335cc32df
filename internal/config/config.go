package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	MongoDBURI  string `validate:"required"`
	MongoDBName string `validate:"required"`
	ServerPort  string `validate:"required"`

	WhoopClientID     string `validate:"required"`
	WhoopClientSecret string `validate:"required"`
	WhoopRedirectURL  string `validate:"required,url"`
	WhoopAuthURL      string `validate:"required,url"`
	WhoopTokenURL     string `validate:"required,url"`
	WhoopAPIBase      string `validate:"required,url"`

	SamsungCallbackURL string `validate:"required,url"`

	// SyncWindow is how many recent records are fetched per provider.
	SyncWindow int `validate:"min=1"`
	// ProviderTimeoutSeconds bounds each provider's steps within one sync.
	ProviderTimeoutSeconds int `validate:"min=1"`
}

func LoadConfig() (*Config, error) {
	// Local development convenience; the file is optional.
	_ = godotenv.Load()

	config := &Config{
		MongoDBURI:  os.Getenv("MONGODB_URI"),
		MongoDBName: os.Getenv("MONGODB_NAME"),
		ServerPort:  os.Getenv("SERVER_PORT"),

		WhoopClientID:     os.Getenv("WHOOP_CLIENT_ID"),
		WhoopClientSecret: os.Getenv("WHOOP_CLIENT_SECRET"),
		WhoopRedirectURL:  os.Getenv("WHOOP_REDIRECT_URL"),
		WhoopAuthURL:      getEnv("WHOOP_AUTH_URL", "https://api.prod.whoop.com/oauth/oauth2/auth"),
		WhoopTokenURL:     getEnv("WHOOP_TOKEN_URL", "https://api.prod.whoop.com/oauth/oauth2/token"),
		WhoopAPIBase:      getEnv("WHOOP_API_BASE", "https://api.prod.whoop.com/developer"),

		SamsungCallbackURL: os.Getenv("SAMSUNG_CALLBACK_URL"),

		SyncWindow:             getEnvInt("SYNC_WINDOW", 7),
		ProviderTimeoutSeconds: getEnvInt("PROVIDER_TIMEOUT_SECONDS", 10),
	}

	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(err, "failed to validate config")
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
