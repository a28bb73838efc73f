package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	SMS      SMSConfig
	Kafka    KafkaConfig
	Jobs     JobsConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig holds the OTP store connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// SMSConfig holds OTP delivery configuration
type SMSConfig struct {
	MockGateway bool
	OTPTTL      time.Duration
}

// KafkaConfig holds the ledger event feed configuration
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// JobsConfig holds the background job schedules
type JobsConfig struct {
	DailyResetAt        string // HH:MM local time
	ExpirySweepInterval time.Duration
}

// LoadConfig loads configuration from a config file and environment variables
func LoadConfig(path string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if the config file is not found, env and defaults apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "8080")
	viper.SetDefault("Server.AllowedHosts", []string{"http://localhost:5173"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017/?replicaSet=rs0")
	viper.SetDefault("MongoDB.Database", "kabadiconnect")
	viper.SetDefault("Redis.Addr", "localhost:6379")
	viper.SetDefault("Redis.DB", 0)
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("SMS.MockGateway", true)
	viper.SetDefault("SMS.OTPTTL", 5*time.Minute)
	viper.SetDefault("Kafka.Enabled", false)
	viper.SetDefault("Kafka.Brokers", []string{"localhost:9092"})
	viper.SetDefault("Kafka.Topic", "kabadi.ledger.events")
	viper.SetDefault("Jobs.DailyResetAt", "00:00")
	viper.SetDefault("Jobs.ExpirySweepInterval", 15*time.Minute)
	viper.SetDefault("LogLevel", "info")
}
