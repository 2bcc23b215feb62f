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

	MongoURI      string
	MongoDatabase string

	// If true:
	// - /readyz returns 503 unless MongoDB is configured and reachable.
	ReadinessRequireDB bool

	// Security policy:
	// If true, PAGO_TOKEN_SECRET MUST be set (>= 32 bytes); without it the
	// process refuses to start instead of minting tokens with an ephemeral key.
	RequireTokenSecret bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("PAGO_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("PAGO_LOG_LEVEL", "info"),
		LogPretty: EnvBool("PAGO_LOG_PRETTY", false),

		ReadHeaderTimeout: EnvDuration("PAGO_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("PAGO_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("PAGO_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("PAGO_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("PAGO_HTTP_MAX_HEADER_BYTES", 1<<20),

		MongoURI:      EnvString("PAGO_MONGO_URI", ""),
		MongoDatabase: EnvString("PAGO_MONGO_DB", "pago"),

		ReadinessRequireDB: EnvBool("PAGO_READINESS_REQUIRE_DB", false),

		RequireTokenSecret: EnvBool("PAGO_REQUIRE_TOKEN_SECRET", false),
	}
}
