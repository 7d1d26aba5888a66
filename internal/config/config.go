package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Catalog  CatalogConfig
	Promo    PromoConfig
	Kafka    KafkaConfig
}

type ServerConfig struct {
	Port        string
	ReadTimeout time.Duration
	IdleTimeout time.Duration
}

type DatabaseConfig struct {
	Path string
}

type CatalogConfig struct {
	MenuPath string
}

// PromoConfig pins the weekly schedule: the promotion is active on Weekday
// evaluated in Timezone, independent of the server's local clock.
type PromoConfig struct {
	Weekday  time.Weekday
	Timezone string
}

type KafkaConfig struct {
	Brokers  []string
	Enabled  bool
	MockMode bool
	Topics   TopicConfig
}

type TopicConfig struct {
	OrderCreated string
	OrderUpdated string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", ":3000"),
			ReadTimeout: 15 * time.Second,
			IdleTimeout: 60 * time.Second,
		},
		Database: DatabaseConfig{
			Path: getEnv("POS_DB_PATH", "data/pos.db"),
		},
		Catalog: CatalogConfig{
			MenuPath: getEnv("MENU_PATH", "data/menu.json"),
		},
		Promo: PromoConfig{
			Weekday:  getEnvWeekday("PROMO_WEEKDAY", time.Thursday),
			Timezone: getEnv("PROMO_TIMEZONE", "America/Mexico_City"),
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Enabled:  getEnvBool("KAFKA_ENABLED", false),
			MockMode: getEnvBool("KAFKA_MOCK_MODE", false),
			Topics: TopicConfig{
				OrderCreated: getEnv("KAFKA_TOPIC_ORDER_CREATED", "pos.order.created"),
				OrderUpdated: getEnv("KAFKA_TOPIC_ORDER_UPDATED", "pos.order.updated"),
			},
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvWeekday(key string, defaultValue time.Weekday) time.Weekday {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == value {
			return d
		}
	}
	return defaultValue
}
