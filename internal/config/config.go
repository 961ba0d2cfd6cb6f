package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment         string
	Version             string
	LogLevel            string
	Server              ServerConfig
	Database            DatabaseConfig
	Redis               RedisConfig
	Kafka               KafkaConfig
	CouponService       ServiceConfig
	NotificationService ServiceConfig
	Pricing             PricingConfig
	Features            FeatureFlags
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

func (d DatabaseConfig) ConnectionString() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	Brokers       []string
	OrdersTopic   string
	PaymentsTopic string
	GroupID       string
}

type ServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PricingConfig holds the checkout pricing knobs handed to the engine.
type PricingConfig struct {
	DefaultGSTRate        float64
	PlatformFee           float64
	FreeDeliveryThreshold float64
	CODCharge             float64
	MaxQuantityPerItem    int
}

type FeatureFlags struct {
	EnableOrderCaching    bool
	EnableOrderEvents     bool
	EnableNotifications   bool
	EnablePaymentConsumer bool
}

// Load reads configuration from the environment and an optional .env file
// in the working directory or one of its parents.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.SetConfigName(".env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		Version:     v.GetString("APP_VERSION"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ReadTimeout:     seconds(v, "SERVER_READ_TIMEOUT"),
			WriteTimeout:    seconds(v, "SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: seconds(v, "SERVER_SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      seconds(v, "REDIS_ORDER_TTL"),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(v.GetString("KAFKA_BROKERS")),
			OrdersTopic:   v.GetString("KAFKA_ORDERS_TOPIC"),
			PaymentsTopic: v.GetString("KAFKA_PAYMENTS_TOPIC"),
			GroupID:       v.GetString("KAFKA_GROUP_ID"),
		},
		CouponService: ServiceConfig{
			BaseURL: v.GetString("COUPON_SERVICE_URL"),
			Timeout: seconds(v, "COUPON_SERVICE_TIMEOUT"),
		},
		NotificationService: ServiceConfig{
			BaseURL: v.GetString("NOTIFICATION_SERVICE_URL"),
			Timeout: seconds(v, "NOTIFICATION_SERVICE_TIMEOUT"),
		},
		Pricing: PricingConfig{
			DefaultGSTRate:        v.GetFloat64("PRICING_DEFAULT_GST_RATE"),
			PlatformFee:           v.GetFloat64("PRICING_PLATFORM_FEE"),
			FreeDeliveryThreshold: v.GetFloat64("PRICING_FREE_DELIVERY_THRESHOLD"),
			CODCharge:             v.GetFloat64("PRICING_COD_CHARGE"),
			MaxQuantityPerItem:    v.GetInt("PRICING_MAX_QUANTITY_PER_ITEM"),
		},
		Features: FeatureFlags{
			EnableOrderCaching:    v.GetBool("FEATURE_ORDER_CACHING"),
			EnableOrderEvents:     v.GetBool("FEATURE_ORDER_EVENTS"),
			EnableNotifications:   v.GetBool("FEATURE_NOTIFICATIONS"),
			EnablePaymentConsumer: v.GetBool("FEATURE_PAYMENT_CONSUMER"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT out of range: %d", c.Server.Port)
	}
	if c.Pricing.DefaultGSTRate < 0 {
		return fmt.Errorf("PRICING_DEFAULT_GST_RATE cannot be negative")
	}
	if c.Pricing.PlatformFee < 0 {
		return fmt.Errorf("PRICING_PLATFORM_FEE cannot be negative")
	}
	if c.Pricing.MaxQuantityPerItem < 1 {
		return fmt.Errorf("PRICING_MAX_QUANTITY_PER_ITEM must be at least 1")
	}
	if (c.Features.EnableOrderEvents || c.Features.EnablePaymentConsumer) && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when events are enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_VERSION", "dev")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("SERVER_PORT", 8082)
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "fzokart")
	v.SetDefault("DB_PASSWORD", "fzokart")
	v.SetDefault("DB_NAME", "fzokart_orders")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_ORDER_TTL", 300)

	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_ORDERS_TOPIC", "orders.events")
	v.SetDefault("KAFKA_PAYMENTS_TOPIC", "payments.events")
	v.SetDefault("KAFKA_GROUP_ID", "orders-service")

	v.SetDefault("COUPON_SERVICE_URL", "http://localhost:8085")
	v.SetDefault("COUPON_SERVICE_TIMEOUT", 5)
	v.SetDefault("NOTIFICATION_SERVICE_URL", "http://localhost:8084")
	v.SetDefault("NOTIFICATION_SERVICE_TIMEOUT", 10)

	v.SetDefault("PRICING_DEFAULT_GST_RATE", 18)
	v.SetDefault("PRICING_PLATFORM_FEE", 3)
	v.SetDefault("PRICING_FREE_DELIVERY_THRESHOLD", 499)
	v.SetDefault("PRICING_COD_CHARGE", 50)
	v.SetDefault("PRICING_MAX_QUANTITY_PER_ITEM", 10)

	v.SetDefault("FEATURE_ORDER_CACHING", true)
	v.SetDefault("FEATURE_ORDER_EVENTS", true)
	v.SetDefault("FEATURE_NOTIFICATIONS", true)
	v.SetDefault("FEATURE_PAYMENT_CONSUMER", true)
}

func seconds(v *viper.Viper, key string) time.Duration {
	return time.Duration(v.GetInt(key)) * time.Second
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
