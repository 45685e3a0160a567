package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is read from the environment first and then from an optional config.yaml file.
type Config struct {
	Inventory InventoryConfig
	Order     OrderConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Log       LogConfig
	Otel      OtelConfig
}

type InventoryConfig struct {
	HTTPAddr string
	// ServiceURL is the base URL the order service uses to reach inventory.
	ServiceURL string
	Timeout    time.Duration
}

type OrderConfig struct {
	HTTPAddr string
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type LogConfig struct {
	Level   string
	LokiURL string
}

type OtelConfig struct {
	Endpoint string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("inventory.http.addr", ":3133")
	v.SetDefault("order.http.addr", ":3131")
	v.SetDefault("inventory.service.url", "http://localhost:3133")
	v.SetDefault("inventory.timeout", 5*time.Second)
	v.SetDefault("redis.addr", "")
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "order-decisions")
	v.SetDefault("log.level", "info")
	v.SetDefault("loki.url", "")
	v.SetDefault("otel.endpoint", "")
}

// Load builds a Config from INVENTORY_HTTP_ADDR, INVENTORY_SERVICE_URL, REDIS_ADDR and friends.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("otel.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
	setDefaults(v)

	timeout := v.GetDuration("inventory.timeout")
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Config{
		Inventory: InventoryConfig{
			HTTPAddr:   v.GetString("inventory.http.addr"),
			ServiceURL: strings.TrimSuffix(v.GetString("inventory.service.url"), "/"),
			Timeout:    timeout,
		},
		Order: OrderConfig{
			HTTPAddr: v.GetString("order.http.addr"),
		},
		Redis: RedisConfig{
			Addr: v.GetString("redis.addr"),
		},
		Kafka: KafkaConfig{
			Brokers: brokerList(v),
			Topic:   v.GetString("kafka.topic"),
		},
		Log: LogConfig{
			Level:   v.GetString("log.level"),
			LokiURL: v.GetString("loki.url"),
		},
		Otel: OtelConfig{
			Endpoint: v.GetString("otel.endpoint"),
		},
	}
}

// brokerList accepts a comma separated string (env) or a YAML list.
func brokerList(v *viper.Viper) []string {
	if raw, ok := v.Get("kafka.brokers").(string); ok {
		return splitList(raw)
	}
	var out []string
	for _, broker := range v.GetStringSlice("kafka.brokers") {
		if broker = strings.TrimSpace(broker); broker != "" {
			out = append(out, broker)
		}
	}
	return out
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
