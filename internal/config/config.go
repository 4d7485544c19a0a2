package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config carries everything main needs to wire the service. Values come from
// an optional config.yaml plus environment overrides (STOREFRONT_* keys).
type Config struct {
	Addr        string `mapstructure:"addr"`
	DatabaseURL string `mapstructure:"database_url"`
	RedisAddr   string `mapstructure:"redis_addr"`

	JWTSecret   string        `mapstructure:"jwt_secret"`
	AdminEmails []string      `mapstructure:"admin_emails"`
	OTPTTL      time.Duration `mapstructure:"otp_ttl"`

	ReservationTTL time.Duration `mapstructure:"reservation_ttl"`

	ShippingFlatCents     int64 `mapstructure:"shipping_flat_cents"`
	FreeShippingOverCents int64 `mapstructure:"free_shipping_over_cents"`
	TaxBasisPoints        int64 `mapstructure:"tax_basis_points"`

	SMTPServer string `mapstructure:"smtp_server"`
	SMTPPort   string `mapstructure:"smtp_port"`
	SMTPUser   string `mapstructure:"smtp_user"`
	SMTPPass   string `mapstructure:"smtp_pass"`
	AlertFrom  string `mapstructure:"alert_from"`
	AlertTo    string `mapstructure:"alert_to"`
}

// Load reads config.yaml from the working directory if present and applies
// environment overrides.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("addr", ":8080")
	v.SetDefault("redis_addr", "storefront-redis:6379")
	v.SetDefault("jwt_secret", "super-secret-key") // override in prod
	v.SetDefault("otp_ttl", 5*time.Minute)
	v.SetDefault("reservation_ttl", 15*time.Minute)
	v.SetDefault("shipping_flat_cents", int64(599))
	v.SetDefault("free_shipping_over_cents", int64(5000))
	v.SetDefault("tax_basis_points", int64(875))

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("storefront")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("database_url", "DATABASE_URL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}
