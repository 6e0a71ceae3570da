package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       *DBconfig
	RabbitMq *RabbitMqconfig
	Smtp     *Smtpconfig
	Maps     *Mapsconfig
	S3       *S3config
	App      *Appconfig
	Srv      *Serviceconfig
	Log      *Loggerconfig
}

type DBconfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	MigrationsPath string
}

type RabbitMqconfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type Smtpconfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	From         string
	SosRecipient string
}

type Mapsconfig struct {
	ApiKey string
	// BaseURL is overridable so tests can point the adapter at a local server.
	BaseURL string
}

type S3config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

type Appconfig struct {
	JwtSecret string
}

type Serviceconfig struct {
	AuthServicePort    string
	RequestServicePort string
}

type Loggerconfig struct {
	Level string
}

// New reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func New() (*Config, error) {
	_ = godotenv.Load()

	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			fmt.Printf("invalid %s, using default %v\n", key, def)
			return def
		}
		return val
	}

	cnf := &Config{
		DB: &DBconfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "fixmate_user"),
			Password:       getEnv("DB_PASSWORD", "fixmate_pass"),
			Database:       getEnv("DB_NAME", "fixmate_db"),
			MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "migrations"),
		},
		RabbitMq: &RabbitMqconfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", ""),
		},
		Smtp: &Smtpconfig{
			Host:         getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:         getEnvInt("SMTP_PORT", 587),
			User:         getEnv("SMTP_USER", ""),
			Password:     getEnv("SMTP_PASSWORD", ""),
			From:         getEnv("SMTP_FROM", "Fule Fix <no-reply@fixmate.app>"),
			SosRecipient: getEnv("SOS_RECIPIENT", ""),
		},
		Maps: &Mapsconfig{
			ApiKey:  getEnv("GOOGLE_MAP_API", ""),
			BaseURL: getEnv("GOOGLE_MAP_BASE_URL", "https://maps.googleapis.com"),
		},
		S3: &S3config{
			Region:          getEnv("S3_REGION", ""),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		},
		App: &Appconfig{
			JwtSecret: getEnv("JWT_SECRET", "your_jwt_secret"),
		},
		Srv: &Serviceconfig{
			AuthServicePort:    getEnv("AUTH_SERVICE_PORT", "3000"),
			RequestServicePort: getEnv("REQUEST_SERVICE_PORT", "3001"),
		},
		Log: &Loggerconfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
	}

	return cnf, nil
}
