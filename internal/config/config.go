package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BrokerKafka = "kafka"
	BrokerSQS   = "sqs"

	StoreMongoDB    = "mongodb"
	StoreClickHouse = "clickhouse"
)

type Config struct {
	Service       Service       `envconfig:"SERVICE"`
	BrokerDriver  string        `envconfig:"BROKER_DRIVER" default:"kafka"`
	Kafka         Kafka         `envconfig:"KAFKA"`
	SQS           SQS           `envconfig:"SQS"`
	StoreDriver   string        `envconfig:"STORE_DRIVER" default:"mongodb"`
	MongoDB       MongoDB       `envconfig:"MONGODB"`
	ClickHouse    ClickHouse    `envconfig:"CLICKHOUSE"`
	Consumer      Consumer      `envconfig:"CONSUMER"`
	Query         Query         `envconfig:"QUERY"`
	Health        Health        `envconfig:"HEALTH"`
	ManagementAPI ManagementAPI `envconfig:"MANAGEMENT_API"`
}

type Service struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Port        string `envconfig:"PORT" default:"8000"`
	Host        string `envconfig:"HOST" default:"localhost:8000"`
}

type Kafka struct {
	Brokers      []string      `envconfig:"BROKERS" default:"localhost:9092"`
	Topic        string        `envconfig:"TOPIC" default:"purchases"`
	GroupID      string        `envconfig:"GROUP_ID" default:"customer-management-api"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
}

type SQS struct {
	Endpoint        string `envconfig:"ENDPOINT"`
	QueueURL        string `envconfig:"QUEUE_URL"`
	Region          string `envconfig:"REGION" default:"eu-central-1"`
	MaxMessages     int32  `envconfig:"MAX_MESSAGES" default:"10"`
	WaitTimeSeconds int32  `envconfig:"WAIT_TIME_SECONDS" default:"20"`
}

type MongoDB struct {
	URI        string `envconfig:"URI" default:"mongodb://localhost:27017"`
	Database   string `envconfig:"DATABASE" default:"customers"`
	Collection string `envconfig:"COLLECTION" default:"purchases"`
}

type ClickHouse struct {
	Host            string `envconfig:"HOST" default:"localhost"`
	Port            string `envconfig:"PORT" default:"9000"`
	Database        string `envconfig:"DB" default:"default"`
	User            string `envconfig:"USER" default:""`
	Password        string `envconfig:"PASSWORD" default:""`
	UseTLS          bool   `envconfig:"USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CONN_MAX_LIFETIME_SEC" default:"3600"`
}

// Consumer controls the restart policy of the background consumer. A stopped
// consumer is terminal unless RestartEnabled is set.
type Consumer struct {
	RestartEnabled        bool          `envconfig:"RESTART_ENABLED" default:"false"`
	RestartBackoffInitial time.Duration `envconfig:"RESTART_BACKOFF_INITIAL" default:"1s"`
	RestartBackoffMax     time.Duration `envconfig:"RESTART_BACKOFF_MAX" default:"30s"`
	RestartMaxAttempts    int           `envconfig:"RESTART_MAX_ATTEMPTS" default:"0"`
}

type Query struct {
	DefaultLimit int `envconfig:"DEFAULT_LIMIT" default:"100"`
	MaxLimit     int `envconfig:"MAX_LIMIT" default:"1000"`
}

type Health struct {
	CheckTimeout time.Duration `envconfig:"CHECK_TIMEOUT" default:"2s"`
}

type ManagementAPI struct {
	URL     string        `envconfig:"URL" default:"http://localhost:8000"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.BrokerDriver {
	case BrokerKafka:
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			return fmt.Errorf("KAFKA_BROKERS and KAFKA_TOPIC are required for the kafka broker driver")
		}
	case BrokerSQS:
		if c.SQS.QueueURL == "" {
			return fmt.Errorf("SQS_QUEUE_URL is required for the sqs broker driver")
		}
	default:
		return fmt.Errorf("unsupported BROKER_DRIVER %q (supported: %s, %s)", c.BrokerDriver, BrokerKafka, BrokerSQS)
	}

	switch c.StoreDriver {
	case StoreMongoDB, StoreClickHouse:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q (supported: %s, %s)", c.StoreDriver, StoreMongoDB, StoreClickHouse)
	}

	if c.Query.DefaultLimit <= 0 || c.Query.MaxLimit <= 0 {
		return fmt.Errorf("QUERY_DEFAULT_LIMIT and QUERY_MAX_LIMIT must be positive")
	}
	if c.Query.DefaultLimit > c.Query.MaxLimit {
		return fmt.Errorf("QUERY_DEFAULT_LIMIT (%d) exceeds QUERY_MAX_LIMIT (%d)", c.Query.DefaultLimit, c.Query.MaxLimit)
	}

	if c.Consumer.RestartEnabled {
		if c.Consumer.RestartBackoffInitial <= 0 {
			return fmt.Errorf("CONSUMER_RESTART_BACKOFF_INITIAL must be positive when restarts are enabled")
		}
		if c.Consumer.RestartBackoffMax < c.Consumer.RestartBackoffInitial {
			return fmt.Errorf("CONSUMER_RESTART_BACKOFF_MAX (%s) is below CONSUMER_RESTART_BACKOFF_INITIAL (%s)",
				c.Consumer.RestartBackoffMax, c.Consumer.RestartBackoffInitial)
		}
		if c.Consumer.RestartMaxAttempts < 0 {
			return fmt.Errorf("CONSUMER_RESTART_MAX_ATTEMPTS must not be negative")
		}
	}

	return nil
}
