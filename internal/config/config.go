package config

import (
	"os"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	StoreDriver string
	DatabaseURL string
	MongoURL    string
	MongoDB     string

	JWTSecret []byte
	JWTTTL    time.Duration

	PaymentSecret []byte

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string

	BrevoAPIKey string
	SMSFrom     string

	AppURL      string
	CORSOrigins []string
	CSRFProtect bool
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "ecommerce-api"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		StoreDriver: EnvDefault("STORE_DRIVER", DriverPostgres),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		MongoURL:    EnvDefault("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:     EnvDefault("MONGO_DB", "ecommerce"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		JWTTTL:    EnvDurationDefault("JWT_TTL", 7*24*time.Hour),

		PaymentSecret: []byte(os.Getenv("PAYMENT_SECRET")),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     EnvIntDefault("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailFrom:    EnvDefault("EMAIL_FROM", "no-reply@example.com"),

		BrevoAPIKey: os.Getenv("BREVO_API_KEY"),
		SMSFrom:     EnvDefault("SMS_FROM", "Shop"),

		AppURL:      EnvDefault("APP_URL", "http://localhost:3000"),
		CORSOrigins: CSV(EnvDefault("CORS_ORIGIN", "*")),
		CSRFProtect: EnvBoolDefault("CSRF_PROTECT", false),
	}
}
