// Package config loads service configuration from the environment.
package config

import (
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"fern-api"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	LogDevelopment                bool     `env:"LOG_DEVELOPMENT" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"30"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,DELETE"`

	// PostgreSQL
	DatabaseHost                  string        `env:"DB_HOST" env-default:"localhost"`
	DatabasePort                  int           `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:"postgres"`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"fern"`
	DatabaseSSLMode               string        `env:"DB_SSL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Redis
	RedisEnabled  bool   `env:"REDIS_ENABLED" env-default:"true"`
	RedisHost     string `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" env-default:""`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	// Candidate cache and rate limiting
	CandidateCacheTTL   time.Duration `env:"CANDIDATE_CACHE_TTL" env-default:"10m"`
	RateLimitPerMinute  int64         `env:"RATE_LIMIT_PER_MINUTE" env-default:"120"`
	RateLimitEnabled    bool          `env:"RATE_LIMIT_ENABLED" env-default:"true"`

	// Kafka producer
	KafkaEnabled      bool     `env:"KAFKA_ENABLED" env-default:"true"`
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaOutputTopic  string   `env:"KAFKA_OUTPUT_TOPIC" env-default:"fern.match-events"`
	KafkaBatchSize    int      `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string   `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Tracing
	TracingEnabled      bool   `env:"TRACING_ENABLED" env-default:"false"`
	TracingOTLPEndpoint string `env:"TRACING_OTLP_ENDPOINT" env-default:"localhost:4317"`
	TracingOTLPProtocol string `env:"TRACING_OTLP_PROTOCOL" env-default:"grpc"`

	// Matching
	MatchConfirmThreshold   float64 `env:"MATCH_CONFIRM_THRESHOLD" env-default:"0.70"`
	MatchAmbiguousThreshold float64 `env:"MATCH_AMBIGUOUS_THRESHOLD" env-default:"0.55"`
	MatchNearTieEpsilon     float64 `env:"MATCH_NEAR_TIE_EPSILON" env-default:"0.05"`
	MatchTopN               int     `env:"MATCH_TOP_N" env-default:"5"`
	MatchMaxCandidates      int     `env:"MATCH_MAX_CANDIDATES" env-default:"500"`
	MatchMaxBatchSize       int     `env:"MATCH_MAX_BATCH_SIZE" env-default:"100"`

	// Segmentation
	SegmentSuperThreshold     float64 `env:"SEGMENT_SUPER_THRESHOLD" env-default:"0.75"`
	SegmentSometimesThreshold float64 `env:"SEGMENT_SOMETIMES_THRESHOLD" env-default:"0.35"`

	// Voter file mode (in-memory datasets instead of Postgres)
	VoterFileModeEnabled bool `env:"VOTER_FILE_MODE_ENABLED" env-default:"false"`
	VoterFileIndexCache  int  `env:"VOTER_FILE_INDEX_CACHE" env-default:"8"`
}

// Load reads .env (when present) and binds environment variables onto
// the config struct.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
