package config

import (
	"log"
	"time"

	"bookingcore/services/booking"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Storage.
	StoreDriver  string `mapstructure:"STORE_DRIVER"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int           `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB     int           `mapstructure:"REDIS_QUEUE_DB"`
	ProviderCacheTTL time.Duration `mapstructure:"PROVIDER_CACHE_TTL"`

	// Booking workflow.
	AutoCancelPendingHours   int      `mapstructure:"AUTO_CANCEL_PENDING_HOURS"`
	MinCancelLeadHours       int      `mapstructure:"MIN_CANCEL_LEAD_HOURS"`
	PreparationBufferMinutes int      `mapstructure:"PREPARATION_BUFFER_MINUTES"`
	ReminderHours            []int    `mapstructure:"REMINDER_HOURS"`
	NotificationChannels     []string `mapstructure:"NOTIFICATION_CHANNELS"`
	AdminIDs                 []string `mapstructure:"ADMIN_IDS"`

	// Background jobs.
	ExpirySweepInterval time.Duration `mapstructure:"EXPIRY_SWEEP_INTERVAL"`
	WorkerConcurrency   int           `mapstructure:"WORKER_CONCURRENCY"`

	// Integrations. Empty values disable the integration.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	StripeKey               string `mapstructure:"STRIPE_KEY"`
	StripeSuccessURL        string `mapstructure:"STRIPE_SUCCESS_URL"`
	StripeCancelURL         string `mapstructure:"STRIPE_CANCEL_URL"`
	StripeCurrency          string `mapstructure:"STRIPE_CURRENCY"`
	RabbitMQURL             string `mapstructure:"RABBITMQ_URL"`
	RabbitMQExchange        string `mapstructure:"RABBITMQ_EXCHANGE"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("STORE_DRIVER", "mongo")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "bookingcore")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("PROVIDER_CACHE_TTL", "5m")
	v.SetDefault("AUTO_CANCEL_PENDING_HOURS", 24)
	v.SetDefault("MIN_CANCEL_LEAD_HOURS", 2)
	v.SetDefault("PREPARATION_BUFFER_MINUTES", 15)
	v.SetDefault("REMINDER_HOURS", []int{24, 2})
	v.SetDefault("NOTIFICATION_CHANNELS", []string{"push"})
	v.SetDefault("ADMIN_IDS", []string{})
	v.SetDefault("EXPIRY_SWEEP_INTERVAL", "10m")
	v.SetDefault("WORKER_CONCURRENCY", 10)
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	v.SetDefault("STRIPE_KEY", "")
	v.SetDefault("STRIPE_SUCCESS_URL", "")
	v.SetDefault("STRIPE_CANCEL_URL", "")
	v.SetDefault("STRIPE_CURRENCY", "usd")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "bookings")
}

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	cfg, err := decode(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	err := v.Unmarshal(&cfg)
	return cfg, err
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Booking derives the workflow policy from the loaded configuration.
func Booking() booking.Policy {
	return AppConfig.BookingPolicy()
}

func (c Config) BookingPolicy() booking.Policy {
	p := booking.DefaultPolicy()
	if c.AutoCancelPendingHours > 0 {
		p.AutoCancelHours = c.AutoCancelPendingHours
	}
	if c.MinCancelLeadHours > 0 {
		p.MinCancelLeadTime = time.Duration(c.MinCancelLeadHours) * time.Hour
	}
	if c.PreparationBufferMinutes > 0 {
		p.PreparationBuffer = time.Duration(c.PreparationBufferMinutes) * time.Minute
	}
	if len(c.ReminderHours) > 0 {
		offsets := make([]time.Duration, 0, len(c.ReminderHours))
		for _, h := range c.ReminderHours {
			if h > 0 {
				offsets = append(offsets, time.Duration(h)*time.Hour)
			}
		}
		p.ReminderOffsets = offsets
	}
	if len(c.NotificationChannels) > 0 {
		p.Channels = c.NotificationChannels
	}
	p.AdminIDs = c.AdminIDs
	return p
}
