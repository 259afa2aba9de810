package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// RuntimeEnv holds process-level configuration read from environment
// variables. Connection parameters are NOT resolved here — each side of a
// sync run reads its own dotenv file (see LoadEndpoint), since both files
// define the same POSTGRES_* variable names.
type RuntimeEnv struct {
	// SourceEnvFile is the dotenv file describing the source database.
	// Env: SOURCE_ENV_FILE (default: .env)
	SourceEnvFile string `envconfig:"SOURCE_ENV_FILE" default:".env"`

	// TargetEnvFile is the dotenv file describing the target database.
	// Env: TARGET_ENV_FILE (default: .env.production)
	TargetEnvFile string `envconfig:"TARGET_ENV_FILE" default:".env.production"`

	// BatchSize is the row count per node/contentdata transfer batch.
	// Env: BATCH_SIZE (default: 2000)
	BatchSize int `envconfig:"BATCH_SIZE" default:"2000"`

	// EmbeddingBatchSize is the row count per embedding transfer batch.
	// Env: EMBEDDING_BATCH_SIZE (default: 50)
	EmbeddingBatchSize int `envconfig:"EMBEDDING_BATCH_SIZE" default:"50"`

	// StrictEmpty requires empty destination dependent tables.
	// Env: STRICT_EMPTY (default: true)
	StrictEmpty bool `envconfig:"STRICT_EMPTY" default:"true"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// OpenAIAPIKey authenticates query-embedding requests for search.
	// Env: OPENAI_API_KEY
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// EmbeddingModel is the model used to embed search queries.
	// Env: EMBEDDING_MODEL (default: text-embedding-3-small)
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`

	// SearchLimit is the default number of search results.
	// Env: SEARCH_LIMIT (default: 20)
	SearchLimit int `envconfig:"SEARCH_LIMIT" default:"20"`
}

// LoadRuntimeEnv loads process-level configuration from environment
// variables.
func LoadRuntimeEnv() (RuntimeEnv, error) {
	var env RuntimeEnv
	if err := envconfig.Process("", &env); err != nil {
		return RuntimeEnv{}, err
	}
	return env, nil
}

// Mode returns the SyncMode implied by StrictEmpty.
func (e RuntimeEnv) Mode() SyncMode {
	if e.StrictEmpty {
		return SyncModeStrict
	}
	return SyncModeResume
}

// ToSearchConfig converts the runtime environment to a SearchConfig.
func (e RuntimeEnv) ToSearchConfig() SearchConfig {
	return NewSearchConfigWithOptions(
		WithAPIKey(e.OpenAIAPIKey),
		WithModel(e.EmbeddingModel),
		WithLimit(e.SearchLimit),
	)
}

// ParseLogFormat parses a log format string, defaulting to pretty.
func ParseLogFormat(s string) LogFormat {
	if strings.EqualFold(s, "json") {
		return LogFormatJSON
	}
	return LogFormatPretty
}
