// config.go
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port   string
	AppEnv string

	// Órdenes: "mongo" o "memory"
	OrderStore  string
	MongoURI    string
	MongoDBName string

	// Cotizaciones, publicaciones, mensajes, perfiles y suscriptores
	SQLDriver   string
	DatabaseURL string
	SQLitePath  string

	RedisAddr      string
	RedisPassword  string
	UnreadCacheTTL time.Duration

	RabbitURL     string
	RabbitEnabled bool

	AuthMode  string
	AuthURL   string
	JWTSecret string

	SentryDSN    string
	OtelEnabled  bool
	OtelEndpoint string

	PollRatePerMin int
}

func Load() *Config {
	// .env es opcional; las variables del entorno tienen prioridad
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("ORDER_STORE", "mongo")
	v.SetDefault("MONGO_URI", "mongodb://host.docker.internal:27017")
	v.SetDefault("MONGO_DB_NAME", "agro_orders_db")
	v.SetDefault("SQL_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SQLITE_PATH", "agro.db")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("UNREAD_CACHE_TTL", "15s")
	v.SetDefault("RABBIT_URL", "amqp://host.docker.internal")
	v.SetDefault("RABBIT_ENABLED", true)
	v.SetDefault("AUTH_MODE", "remote")
	v.SetDefault("AUTH_URL", "http://host.docker.internal:3000")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SENTRY_DSN", "")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("POLL_RATE_PER_MIN", 30)
	v.AutomaticEnv()

	return &Config{
		Port:           v.GetString("PORT"),
		AppEnv:         v.GetString("APP_ENV"),
		OrderStore:     v.GetString("ORDER_STORE"),
		MongoURI:       v.GetString("MONGO_URI"),
		MongoDBName:    v.GetString("MONGO_DB_NAME"),
		SQLDriver:      v.GetString("SQL_DRIVER"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		UnreadCacheTTL: v.GetDuration("UNREAD_CACHE_TTL"),
		RabbitURL:      v.GetString("RABBIT_URL"),
		RabbitEnabled:  v.GetBool("RABBIT_ENABLED"),
		AuthMode:       v.GetString("AUTH_MODE"),
		AuthURL:        v.GetString("AUTH_URL"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		SentryDSN:      v.GetString("SENTRY_DSN"),
		OtelEnabled:    v.GetBool("OTEL_ENABLED"),
		OtelEndpoint:   v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		PollRatePerMin: v.GetInt("POLL_RATE_PER_MIN"),
	}
}
