package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogPretty bool

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	MongoURI          string
	MongoDatabase     string
	MongoConnTimeout  time.Duration
	MongoTransactions bool

	// If true, /readyz returns 503 unless Mongo is configured and reachable.
	ReadinessRequireDB bool

	// If true, PADRON_TOKEN_KEY MUST be set (>= 32 bytes) before startup.
	RequireTokenKey bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("PADRON_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("PADRON_LOG_LEVEL", "info"),
		LogPretty: EnvBool("PADRON_LOG_PRETTY", false),

		ReadHeaderTimeout: EnvDuration("PADRON_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("PADRON_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("PADRON_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("PADRON_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("PADRON_HTTP_MAX_HEADER_BYTES", 1<<20),

		MongoURI:          EnvString("PADRON_MONGO_URI", ""),
		MongoDatabase:     EnvString("PADRON_MONGO_DB", "padron"),
		MongoConnTimeout:  EnvDuration("PADRON_MONGO_CONN_TIMEOUT", 10*time.Second),
		MongoTransactions: EnvBool("PADRON_MONGO_TRANSACTIONS", true),

		ReadinessRequireDB: EnvBool("PADRON_READINESS_REQUIRE_DB", false),

		RequireTokenKey: EnvBool("PADRON_REQUIRE_TOKEN_KEY", true),
	}
}
