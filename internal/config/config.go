package config

import (
	"log"
	"reflect"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	GoEnv       string `mapstructure:"GO_ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// Judge0
	Judge0URL            string `mapstructure:"JUDGE0_URL"`
	Judge0APIKey         string `mapstructure:"JUDGE0_API_KEY"`
	Judge0APIHost        string `mapstructure:"JUDGE0_API_HOST"` // set for RapidAPI-hosted instances
	Judge0AuthToken      string `mapstructure:"JUDGE0_AUTH_TOKEN"`
	Judge0TimeoutSeconds int    `mapstructure:"JUDGE0_TIMEOUT_SECONDS"`

	// OAuth
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `mapstructure:"GOOGLE_CALLBACK_URL"`

	GithubClientID     string `mapstructure:"GITHUB_CLIENT_ID"`
	GithubClientSecret string `mapstructure:"GITHUB_CLIENT_SECRET"`
	GithubCallbackURL  string `mapstructure:"GITHUB_CALLBACK_URL"`

	// R2 / S3, used for exported reports
	R2AccountID       string `mapstructure:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `mapstructure:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `mapstructure:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `mapstructure:"R2_BUCKET_NAME"`
	R2PublicURL       string `mapstructure:"R2_PUBLIC_URL"`

	// Password given to accounts created by cmd/seeder
	SeedPassword string `mapstructure:"SEED_PASSWORD"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GO_ENV", "development")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("FRONTEND_URL", "http://localhost:5173")
	viper.SetDefault("JUDGE0_URL", "https://ce.judge0.com")
	viper.SetDefault("JUDGE0_TIMEOUT_SECONDS", 30)
	viper.SetDefault("SEED_PASSWORD", "Codigma123!")

	// AutomaticEnv only covers keys viper already knows about.
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		if key := t.Field(i).Tag.Get("mapstructure"); key != "" {
			_ = viper.BindEnv(key)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}
