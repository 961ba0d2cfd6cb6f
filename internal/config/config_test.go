package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8082, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 18.0, cfg.Pricing.DefaultGSTRate)
	assert.Equal(t, 3.0, cfg.Pricing.PlatformFee)
	assert.Equal(t, 499.0, cfg.Pricing.FreeDeliveryThreshold)
	assert.Equal(t, 50.0, cfg.Pricing.CODCharge)
	assert.Equal(t, 10, cfg.Pricing.MaxQuantityPerItem)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.True(t, cfg.Features.EnableOrderCaching)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("PRICING_PLATFORM_FEE", "0")
	v.Set("PRICING_DEFAULT_GST_RATE", "12")
	v.Set("KAFKA_BROKERS", "k1:9092, k2:9092,")
	v.Set("FEATURE_ORDER_CACHING", "false")

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 0.0, cfg.Pricing.PlatformFee)
	assert.Equal(t, 12.0, cfg.Pricing.DefaultGSTRate)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Features.EnableOrderCaching)
}

func TestFromViper_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("PRICING_PLATFORM_FEE", "-1")
	_, err := FromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("KAFKA_BROKERS", "")
	_, err = FromViper(v)
	assert.Error(t, err)
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "orders", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=orders sslmode=disable", d.ConnectionString())
}
