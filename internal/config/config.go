package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sokaytech/storefront/internal/models"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPHost string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	// DatabaseURL empty means offline mode: orders and the catalog are
	// served from local fallbacks so the storefront still works.
	DatabaseURL string `env:"DATABASE_URL"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	ESURL      string `env:"ES_URL"`
	ESUser     string `env:"ES_USER"`
	ESPassword string `env:"ES_PASSWORD"`

	JWTSecret string `env:"JWT_SECRET"`

	AdminEmail string `env:"ADMIN_EMAIL" envDefault:"admin@sokaytechnologies.com"`

	Paystack Paystack `envPrefix:"PAYSTACK_"`
	Resend   Resend   `envPrefix:"RESEND_"`
}

type Paystack struct {
	BaseURL     string `env:"BASE_URL" envDefault:"https://api.paystack.co"`
	PublicKey   string `env:"PUBLIC_KEY"`
	SecretKey   string `env:"SECRET_KEY"`
	CallbackURL string `env:"CALLBACK_URL"`
}

type Resend struct {
	BaseURL string `env:"BASE_URL" envDefault:"https://api.resend.com"`
	APIKey  string `env:"API_KEY"`
	From    string `env:"FROM" envDefault:"Sokay Technologies <orders@sokaytechnologies.com>"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.CheckoutSession{},
		&models.Subscriber{},
		&models.AdminUser{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
