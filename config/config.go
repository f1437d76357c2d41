package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values. It is loaded once at process start
// and handed explicitly to the components that need credentials (the
// notification dispatcher and the calendar sync) rather than read ambiently.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Public base URL used to build approve/reject decision links.
	BaseURL string `mapstructure:"BASE_URL"`

	// LINE Messaging API credentials.
	LineChannelSecret string `mapstructure:"LINE_CHANNEL_SECRET"`
	LineChannelToken  string `mapstructure:"LINE_CHANNEL_TOKEN"`

	// Google service-account key used for calendar event creation.
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`

	// Secret for signing decision-link tokens.
	LinkSecret string `mapstructure:"LINK_SECRET"`

	// Static bearer token guarding the admin management endpoints.
	AdminAPIToken string `mapstructure:"ADMIN_API_TOKEN"`

	// IANA timezone all booking times are interpreted in.
	Timezone string `mapstructure:"TIMEZONE"`
}

var AppConfig Config

// LoadConfig reads config.yaml (current dir or ./config) plus environment
// variables and fills AppConfig.
func LoadConfig() Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "roombook")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "config/serviceAccountKey.json")
	viper.SetDefault("TIMEZONE", "Asia/Bangkok")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return AppConfig
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
