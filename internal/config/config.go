package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Twilio   TwilioConfig
	Sync     SyncConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port          int
	AllowedOrigin string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers []string
	GroupID string
}

type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	FromNumber   string
	WhatsAppFrom string
	BaseURL      string
}

type SyncConfig struct {
	Interval    time.Duration
	OrderFanout int
	CallTimeout time.Duration
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("ALLOWED_ORIGIN", "http://localhost:3000")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "binapp")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "binapp")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_GROUP_ID", "binapp-priority-sync")
	viper.SetDefault("TWILIO_BASE_URL", "https://api.twilio.com")
	viper.SetDefault("SYNC_INTERVAL", "10s")
	viper.SetDefault("SYNC_ORDER_FANOUT", 8)
	viper.SetDefault("STORE_CALL_TIMEOUT", "10s")
	viper.SetDefault("LOG_LEVEL", "info")

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}
	syncInterval, err := time.ParseDuration(viper.GetString("SYNC_INTERVAL"))
	if err != nil {
		return nil, err
	}
	callTimeout, err := time.ParseDuration(viper.GetString("STORE_CALL_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:          viper.GetInt("SERVER_PORT"),
			AllowedOrigin: viper.GetString("ALLOWED_ORIGIN"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
		},
		Kafka: KafkaConfig{
			Brokers: splitCSV(viper.GetString("KAFKA_BROKERS")),
			GroupID: viper.GetString("KAFKA_GROUP_ID"),
		},
		Twilio: TwilioConfig{
			AccountSID:   viper.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:    viper.GetString("TWILIO_AUTH_TOKEN"),
			FromNumber:   viper.GetString("TWILIO_FROM_NUMBER"),
			WhatsAppFrom: viper.GetString("TWILIO_WHATSAPP_FROM"),
			BaseURL:      viper.GetString("TWILIO_BASE_URL"),
		},
		Sync: SyncConfig{
			Interval:    syncInterval,
			OrderFanout: viper.GetInt("SYNC_ORDER_FANOUT"),
			CallTimeout: callTimeout,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

