package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	ProviderBaseURL   string
	ProviderKeyID     string
	ProviderKeySecret string
	WebhookSecret     string
	TokenSecret       string
	RedisAddress      string
	CatalogFile       string
	ProviderTimeout   time.Duration
	SettleInterval    time.Duration
	SettleAfter       time.Duration
	WorkerPoolSize    int
	SettleBatchSize   int
	ShutdownTimeout   time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultProviderBaseURL = "https://api.razorpay.com"
	defaultTokenSecret     = "change-me-in-production"
	defaultProviderTimeout = 10 * time.Second
	defaultSettleInterval  = time.Minute
	defaultSettleAfter     = 5 * time.Minute
	defaultWorkerPoolSize  = 4
	defaultSettleBatchSize = 32
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		ProviderBaseURL:   getString(lookup, "PROVIDER_ADDRESS", defaultProviderBaseURL),
		ProviderKeyID:     getString(lookup, "PROVIDER_KEY_ID", ""),
		ProviderKeySecret: getString(lookup, "PROVIDER_KEY_SECRET", ""),
		WebhookSecret:     getString(lookup, "WEBHOOK_SECRET", ""),
		TokenSecret:       getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		RedisAddress:      getString(lookup, "REDIS_ADDRESS", ""),
		CatalogFile:       getString(lookup, "CATALOG_FILE", ""),
		ProviderTimeout:   getDuration(lookup, "PROVIDER_TIMEOUT", defaultProviderTimeout),
		SettleInterval:    getDuration(lookup, "SETTLE_POLL_INTERVAL", defaultSettleInterval),
		SettleAfter:       getDuration(lookup, "SETTLE_AFTER", defaultSettleAfter),
		WorkerPoolSize:    getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		SettleBatchSize:   getInt(lookup, "SETTLE_BATCH_SIZE", defaultSettleBatchSize),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("cashpay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		providerTimeoutStr = cfg.ProviderTimeout.String()
		settleIntervalStr  = cfg.SettleInterval.String()
		settleAfterStr     = cfg.SettleAfter.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.ProviderBaseURL, "p", cfg.ProviderBaseURL, "Payment provider base URL")
	fs.StringVar(&cfg.ProviderKeyID, "provider-key", cfg.ProviderKeyID, "Payment provider API key id")
	fs.StringVar(&cfg.ProviderKeySecret, "provider-secret", cfg.ProviderKeySecret, "Payment provider API key secret")
	fs.StringVar(&cfg.WebhookSecret, "webhook-secret", cfg.WebhookSecret, "Shared secret for payment callback signatures")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for validating subject tokens")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for the callback replay guard")
	fs.StringVar(&cfg.CatalogFile, "catalog", cfg.CatalogFile, "JSON file with accessory prices")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent settlement workers")
	fs.IntVar(&cfg.SettleBatchSize, "settle-batch", cfg.SettleBatchSize, "Maximum orders per settlement batch")
	fs.StringVar(&providerTimeoutStr, "provider-timeout", providerTimeoutStr, "Timeout for payment provider calls")
	fs.StringVar(&settleIntervalStr, "settle-interval", settleIntervalStr, "Interval between settlement polls")
	fs.StringVar(&settleAfterStr, "settle-after", settleAfterStr, "Age before an unsettled intent is polled")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ProviderTimeout, err = time.ParseDuration(providerTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid provider timeout: %w", err)
	}

	if cfg.SettleInterval, err = time.ParseDuration(settleIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid settle interval: %w", err)
	}

	if cfg.SettleAfter, err = time.ParseDuration(settleAfterStr); err != nil {
		return nil, fmt.Errorf("invalid settle-after duration: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("WEBHOOK_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read webhook secret file: %w", err)
		}
		cfg.WebhookSecret = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.SettleBatchSize <= 0 {
		cfg.SettleBatchSize = defaultSettleBatchSize
	}

	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = defaultProviderTimeout
	}

	if cfg.SettleInterval <= 0 {
		cfg.SettleInterval = defaultSettleInterval
	}

	if cfg.SettleAfter <= 0 {
		cfg.SettleAfter = defaultSettleAfter
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("webhook secret must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
