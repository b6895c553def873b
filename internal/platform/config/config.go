// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	pstrings "regcheck/pkg/platform/strings"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the full service configuration.
type Config struct {
	Server        Server
	Database      Database
	Redis         RedisConfig
	Kafka         Kafka
	Directory     Directory
	RegisterCheck RegisterCheck
	Monitor       Monitor
	SMTP          SMTP
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr     string
	LogLevel string
}

// Database selects the store backend and its pools.
type Database struct {
	Driver          string
	URL             string
	ReplicaURL      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig is optional; an empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka names the brokers and every topic the service touches.
// ResultTopics is keyed by source type.
type Kafka struct {
	Brokers                []string
	ConsumerGroup          string
	TopicInitiateCheck     string
	TopicRemoveCheckData   string
	TopicReplication       string
	ResultTopics           map[string]string
	AutoCreateTopics       bool
	TopicPartitions        int32
	TopicReplicationFactor int16
}

// Directory points at the external identity and office directories.
type Directory struct {
	IdentityURL      string
	JurisdictionURL  string
	Timeout          time.Duration
	IdentityCacheTTL time.Duration
}

// RegisterCheck holds behaviour toggles for the check lifecycle.
type RegisterCheck struct {
	PendingPageSize              int
	ReplicationForwardingEnabled bool
	ArchiveAfter                 time.Duration
}

// Monitor configures the scheduled stale-check sweep.
type Monitor struct {
	Enabled               bool
	Schedule              string
	LeaseName             string
	LeaseAtLeast          time.Duration
	LeaseAtMost           time.Duration
	StaleThreshold        time.Duration
	ExcludedJurisdictions []string
	EmailEnabled          bool
	EmailRecipients       []string
	EmailSender           string
}

// SMTP is the outbound mail relay used for the digest.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// ResultSourceTypes lists the categories that get a default result topic.
var ResultSourceTypes = []string{"VOTER_CARD", "POSTAL_VOTE", "PROXY_VOTE", "OVERSEAS_VOTE"}

// FromEnv builds the configuration from environment variables so main stays lean.
func FromEnv() (Config, error) {
	return Load(os.Getenv)
}

// Load builds the configuration from a lookup function. Tests pass a map-backed lookup.
func Load(getenv func(string) string) (Config, error) {
	e := env{get: getenv}

	cfg := Config{
		Server: Server{
			Addr:     e.str("REGCHECK_ADDR", ":8080"),
			LogLevel: e.str("LOG_LEVEL", "info"),
		},
		Database: Database{
			Driver:          strings.ToLower(e.str("STORE_DRIVER", DriverPostgres)),
			URL:             e.str("DATABASE_URL", ""),
			ReplicaURL:      e.str("DATABASE_REPLICA_URL", ""),
			MaxOpenConns:    e.integer("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    e.integer("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: e.duration("DB_CONN_MAX_LIFETIME", 15*time.Minute),
		},
		Redis: RedisConfig{
			URL:          e.str("REDIS_URL", ""),
			PoolSize:     e.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: e.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  e.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  e.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: e.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:                e.list("KAFKA_BROKERS", nil),
			ConsumerGroup:          e.str("KAFKA_CONSUMER_GROUP", "register-check"),
			TopicInitiateCheck:     e.str("KAFKA_TOPIC_INITIATE_CHECK", "initiate-register-check"),
			TopicRemoveCheckData:   e.str("KAFKA_TOPIC_REMOVE_CHECK_DATA", "remove-register-check-data"),
			TopicReplication:       e.str("KAFKA_TOPIC_REPLICATION", "register-check-replication"),
			ResultTopics:           make(map[string]string, len(ResultSourceTypes)),
			AutoCreateTopics:       e.boolean("KAFKA_AUTO_CREATE_TOPICS", false),
			TopicPartitions:        int32(e.integer("KAFKA_TOPIC_PARTITIONS", 3)),
			TopicReplicationFactor: int16(e.integer("KAFKA_TOPIC_REPLICATION_FACTOR", 1)),
		},
		Directory: Directory{
			IdentityURL:      e.str("IDENTITY_DIRECTORY_URL", ""),
			JurisdictionURL:  e.str("JURISDICTION_DIRECTORY_URL", ""),
			Timeout:          e.duration("DIRECTORY_TIMEOUT", 5*time.Second),
			IdentityCacheTTL: e.duration("IDENTITY_CACHE_TTL", 5*time.Minute),
		},
		RegisterCheck: RegisterCheck{
			PendingPageSize:              e.integer("PENDING_PAGE_SIZE", 100),
			ReplicationForwardingEnabled: e.boolean("REPLICATION_FORWARDING_ENABLED", false),
			ArchiveAfter:                 e.duration("ARCHIVE_AFTER", 0),
		},
		Monitor: Monitor{
			Enabled:               e.boolean("MONITOR_ENABLED", true),
			Schedule:              e.str("MONITOR_SCHEDULE", "0 7 * * *"),
			LeaseName:             e.str("MONITOR_LEASE_NAME", "pending-register-check-monitor"),
			LeaseAtLeast:          e.duration("MONITOR_LEASE_AT_LEAST", time.Minute),
			LeaseAtMost:           e.duration("MONITOR_LEASE_AT_MOST", 10*time.Minute),
			StaleThreshold:        e.duration("MONITOR_STALE_THRESHOLD", 24*time.Hour),
			ExcludedJurisdictions: e.list("MONITOR_EXCLUDED_JURISDICTIONS", nil),
			EmailEnabled:          e.boolean("MONITOR_EMAIL_ENABLED", false),
			EmailRecipients:       e.list("MONITOR_EMAIL_RECIPIENTS", nil),
			EmailSender:           e.str("MONITOR_EMAIL_SENDER", ""),
		},
		SMTP: SMTP{
			Host:     e.str("SMTP_HOST", ""),
			Port:     e.integer("SMTP_PORT", 587),
			Username: e.str("SMTP_USERNAME", ""),
			Password: e.str("SMTP_PASSWORD", ""),
			Timeout:  e.duration("SMTP_TIMEOUT", 10*time.Second),
		},
	}

	for _, st := range ResultSourceTypes {
		def := "register-check-result-" + strings.ReplaceAll(strings.ToLower(st), "_", "-")
		cfg.Kafka.ResultTopics[st] = e.str("KAFKA_TOPIC_RESULT_"+st, def)
	}

	if err := errors.Join(append(e.errs, cfg.validate())...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_DRIVER=postgres"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q", DriverPostgres, DriverMemory))
	}
	if c.RegisterCheck.PendingPageSize <= 0 {
		errs = append(errs, errors.New("PENDING_PAGE_SIZE must be positive"))
	}
	if c.Directory.IdentityCacheTTL < 0 {
		errs = append(errs, errors.New("IDENTITY_CACHE_TTL must not be negative"))
	}
	if c.Directory.Timeout <= 0 {
		errs = append(errs, errors.New("DIRECTORY_TIMEOUT must be positive"))
	}
	if c.Monitor.Enabled {
		if _, err := cron.ParseStandard(c.Monitor.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("MONITOR_SCHEDULE: %w", err))
		}
		if c.Monitor.LeaseAtMost <= 0 || c.Monitor.LeaseAtLeast < 0 || c.Monitor.LeaseAtLeast > c.Monitor.LeaseAtMost {
			errs = append(errs, errors.New("MONITOR_LEASE_AT_LEAST must be within [0, MONITOR_LEASE_AT_MOST]"))
		}
		if c.Monitor.StaleThreshold <= 0 {
			errs = append(errs, errors.New("MONITOR_STALE_THRESHOLD must be positive"))
		}
		if c.Monitor.EmailEnabled {
			if len(c.Monitor.EmailRecipients) == 0 {
				errs = append(errs, errors.New("MONITOR_EMAIL_RECIPIENTS is required when digest email is enabled"))
			}
			if _, err := mail.ParseAddress(c.Monitor.EmailSender); err != nil {
				errs = append(errs, fmt.Errorf("MONITOR_EMAIL_SENDER: %w", err))
			}
			if c.SMTP.Host == "" {
				errs = append(errs, errors.New("SMTP_HOST is required when digest email is enabled"))
			}
		}
	}
	return errors.Join(errs...)
}

type env struct {
	get  func(string) string
	errs []error
}

func (e *env) str(key, def string) string {
	if v := strings.TrimSpace(e.get(key)); v != "" {
		return v
	}
	return def
}

func (e *env) integer(key string, def int) int {
	raw := strings.TrimSpace(e.get(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (e *env) boolean(key string, def bool) bool {
	raw := strings.TrimSpace(e.get(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(e.get(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func (e *env) list(key string, def []string) []string {
	raw := strings.TrimSpace(e.get(key))
	if raw == "" {
		return def
	}
	return pstrings.SplitCSV(raw)
}
