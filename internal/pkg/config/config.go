package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   external API credentials)
// - default: Values common across all environments (timeouts, poll intervals)
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	Square   SquareConfig
	Calendar CalendarConfig
	Mail     MailConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host          string `envconfig:"DB_HOST" default:"localhost"`
	Port          string `envconfig:"DB_PORT" default:"5432"`
	User          string `envconfig:"DB_USER" required:"true"`
	Password      string `envconfig:"DB_PASSWORD" required:"true"`
	DBName        string `envconfig:"DB_NAME" required:"true"`
	SSLMode       string `envconfig:"DB_SSL_MODE" default:"disable"`
	MigrationsDir string `envconfig:"DB_MIGRATIONS_DIR" default:"migrations"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

// SquareConfig points the payment gateway client at the card processor.
// BaseURL switches between the sandbox and production hosts.
type SquareConfig struct {
	BaseURL     string        `envconfig:"SQUARE_BASE_URL" default:"https://connect.squareupsandbox.com"`
	AccessToken string        `envconfig:"SQUARE_ACCESS_TOKEN" required:"true"`
	APIVersion  string        `envconfig:"SQUARE_API_VERSION" default:"2024-05-15"`
	Timeout     time.Duration `envconfig:"SQUARE_TIMEOUT" default:"15s"`
}

type CalendarConfig struct {
	APIBaseURL    string        `envconfig:"CALENDAR_API_BASE_URL" default:"https://www.googleapis.com/calendar/v3"`
	TokenEndpoint string        `envconfig:"CALENDAR_TOKEN_ENDPOINT" default:"https://oauth2.googleapis.com/token"`
	ClientID      string        `envconfig:"CALENDAR_CLIENT_ID" required:"true"`
	ClientSecret  string        `envconfig:"CALENDAR_CLIENT_SECRET" required:"true"`
	Timeout       time.Duration `envconfig:"CALENDAR_TIMEOUT" default:"10s"`
}

type MailConfig struct {
	Endpoint    string        `envconfig:"MAIL_ENDPOINT" required:"true"`
	APIKey      string        `envconfig:"MAIL_API_KEY" required:"true"`
	FromAddress string        `envconfig:"MAIL_FROM_ADDRESS" required:"true"`
	Timeout     time.Duration `envconfig:"MAIL_TIMEOUT" default:"10s"`
}

// WorkerConfig tunes the side-effect job poller.
type WorkerConfig struct {
	PollInterval time.Duration `envconfig:"WORKER_POLL_INTERVAL" default:"2s"`
	BatchSize    int32         `envconfig:"WORKER_BATCH_SIZE" default:"20"`
	MaxAttempts  int32         `envconfig:"WORKER_MAX_ATTEMPTS" default:"5"`
	BackoffBase  time.Duration `envconfig:"WORKER_BACKOFF_BASE" default:"30s"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:          "localhost",
			Port:          "15433", // Test DB port
			User:          "test",
			Password:      "test",
			DBName:        "test_db",
			SSLMode:       "disable",
			MigrationsDir: "migrations",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Square: SquareConfig{
			BaseURL:     "http://localhost:18080",
			AccessToken: "test-token",
			APIVersion:  "2024-05-15",
			Timeout:     2 * time.Second,
		},
		Calendar: CalendarConfig{
			APIBaseURL:    "http://localhost:18081",
			TokenEndpoint: "http://localhost:18081/token",
			ClientID:      "test-client",
			ClientSecret:  "test-secret",
			Timeout:       2 * time.Second,
		},
		Mail: MailConfig{
			Endpoint:    "http://localhost:18082/send",
			APIKey:      "test-key",
			FromAddress: "noreply@example.com",
			Timeout:     2 * time.Second,
		},
		Worker: WorkerConfig{
			PollInterval: 50 * time.Millisecond,
			BatchSize:    10,
			MaxAttempts:  3,
			BackoffBase:  10 * time.Millisecond,
		},
	}
}
