package config

import (
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	gateway "github.com/nimasrn/ledger-api/internal/gateways"
	"github.com/nimasrn/ledger-api/internal/queue"
	"github.com/nimasrn/ledger-api/pkg/logger"
	"github.com/nimasrn/ledger-api/pkg/mailer"
	"github.com/nimasrn/ledger-api/pkg/pg"
	"github.com/nimasrn/ledger-api/pkg/redis"
)

var config *Config

// Config holds every value read from the environment. Nothing else in the
// codebase reads env variables directly.
type Config struct {
	AppEnv              string `env:"APP_ENV,default=development"`
	AppName             string `env:"APP_NAME,default=ledger_api"`
	AppDebug            bool   `env:"APP_DEBUG,default=false"`
	AppDebugMetricsAddr string `env:"APP_DEBUG_METRIC_ADDR"`
	AppDebugMetricsURI  string `env:"APP_DEBUG_METRIC_URI,default=/metrics"`

	HttpListenAddr         string        `env:"HTTP_LISTEN_ADDR,default=:5000"`
	HttpBaseRequestUrl     string        `env:"HTTP_BASE_REQUEST_URI,default=/api"`
	HttpRequestTimeout     time.Duration `env:"HTTP_REQUEST_TIMEOUT,default=15s"`
	HttpServerReadTimeout  time.Duration `env:"HTTP_SERVER_READ_TIMEOUT,default=5s"`
	HttpServerWriteTimeout time.Duration `env:"HTTP_SERVER_WRITE_TIMEOUT,default=5s"`
	CorsAllowedOrigins     string        `env:"CORS_ALLOWED_ORIGINS"`
	FrontendURL            string        `env:"FRONTEND_URL,default=http://localhost:3000"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT,default=5432"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST,required=true"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT,default=5432"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER,required=true"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME,required=true"`
	PostgresSSLMode       string `env:"POSTGRES_SSLMODE,default=disable"`
	PostgresMaxOpenConns  int    `env:"POSTGRES_MAX_OPEN_CONNS,default=20"`

	RedisAddr               string `env:"REDIS_ADDR,default=localhost:6379"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE,default=0"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX,default=ledger:"`

	PromNamespace string `env:"PROM_NAMESPACE,default=ledger"`

	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	SessionTTL        time.Duration `env:"SESSION_TTL,default=1h"`
	PasswordResetTTL  time.Duration `env:"PASSWORD_RESET_TTL,default=15m"`
	AdminSeedEmail    string        `env:"ADMIN_SEED_EMAIL,default=admin@example.com"`
	AdminSeedPassword string        `env:"ADMIN_SEED_PASSWORD,default=admin123"`

	SMTPHost     string `env:"SMTP_HOST,default=smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT,default=587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`

	SMSApiURL   string        `env:"SMS_API_URL,default=http://localhost:8090/api/http/sms/send"`
	SMSApiKey   string        `env:"SMS_API_KEY"`
	SMSSenderID string        `env:"SMS_SENDER_ID"`
	SMSTimeout  time.Duration `env:"SMS_TIMEOUT,default=10s"`

	QueueName              string        `env:"QUEUE_NAME,default=notifications"`
	QueueConsumerGroup     string        `env:"QUEUE_CONSUMER_GROUP,default=sms-senders"`
	QueueConsumerName      string        `env:"QUEUE_CONSUMER_NAME,default=processor"`
	QueueConsumers         int           `env:"QUEUE_CONSUMERS,default=2"`
	QueueMaxRetries        int           `env:"QUEUE_MAX_RETRIES,default=3"`
	QueueVisibilityTimeout time.Duration `env:"QUEUE_VISIBILITY_TIMEOUT,default=30s"`
	QueuePollInterval      time.Duration `env:"QUEUE_POLL_INTERVAL,default=500ms"`
	QueueBatchSize         int64         `env:"QUEUE_BATCH_SIZE,default=10"`
	QueueMaxLen            int64         `env:"QUEUE_MAX_LEN,default=100000"`
	QueueEnableDLQ         bool          `env:"QUEUE_ENABLE_DLQ,default=true"`
	ProcessorWorkers       int           `env:"PROCESSOR_WORKERS,default=8"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	c := &Config{}
	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return errors.Wrap(err, "failed to map env variables to Config")
	}

	config = c
	return nil
}

// Set installs c as the global configuration. Used by tests.
func Set(c *Config) {
	config = c
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) AllowedOrigins() []string {
	origins := []string{c.FrontendURL}
	for _, o := range strings.Split(c.CorsAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) WritePostgres() pg.Config {
	return pg.Config{
		Host:         c.PostgresWriteHost,
		Port:         c.PostgresWritePort,
		User:         c.PostgresWriteUser,
		Password:     c.PostgresWritePassword,
		Database:     c.PostgresWriteDatabase,
		SSLMode:      c.PostgresSSLMode,
		MaxOpenConns: c.PostgresMaxOpenConns,
	}
}

// ReadPostgres falls back to the write side when no replica is configured.
func (c *Config) ReadPostgres() pg.Config {
	if c.PostgresReadHost == "" {
		return c.WritePostgres()
	}
	return pg.Config{
		Host:         c.PostgresReadHost,
		Port:         c.PostgresReadPort,
		User:         c.PostgresReadUser,
		Password:     c.PostgresReadPassword,
		Database:     c.PostgresReadDatabase,
		SSLMode:      c.PostgresSSLMode,
		MaxOpenConns: c.PostgresMaxOpenConns,
	}
}

func (c *Config) Redis(clientName string) *redis.Options {
	return &redis.Options{
		Addrs:      []string{c.RedisAddr},
		ClientName: clientName,
		DB:         c.RedisDatabase,
		Username:   c.RedisUsername,
		Password:   c.RedisPassword,
	}
}

func (c *Config) NotificationQueue() queue.QueueConfig {
	return queue.QueueConfig{
		Name:              c.QueueName,
		ConsumerGroup:     c.QueueConsumerGroup,
		ConsumerName:      c.QueueConsumerName,
		MaxRetries:        c.QueueMaxRetries,
		VisibilityTimeout: c.QueueVisibilityTimeout,
		PollInterval:      c.QueuePollInterval,
		BatchSize:         c.QueueBatchSize,
		MaxLen:            c.QueueMaxLen,
		EnableDLQ:         c.QueueEnableDLQ,
	}
}

func (c *Config) SMSGateway() gateway.Config {
	return gateway.Config{
		URL:      c.SMSApiURL,
		APIKey:   c.SMSApiKey,
		SenderID: c.SMSSenderID,
		Timeout:  c.SMSTimeout,
	}
}

func (c *Config) SMTP() mailer.Config {
	return mailer.Config{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		User:     c.SMTPUser,
		Password: c.SMTPPassword,
		From:     c.SMTPFrom,
	}
}
