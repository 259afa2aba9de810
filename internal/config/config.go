// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
)

// Default configuration values.
const (
	DefaultPostgresUser       = "postgres"
	DefaultPostgresPassword   = "postgres"
	DefaultPostgresHost       = "localhost"
	DefaultPostgresPort       = 5432
	DefaultPostgresDB         = "ccdr-explorer-db"
	DefaultSourceEnvFile      = ".env"
	DefaultTargetEnvFile      = ".env.production"
	DefaultNodeBatchSize      = 2000
	DefaultEmbeddingBatchSize = 50
	DefaultLogLevel           = "INFO"
	DefaultEmbeddingModel     = "text-embedding-3-small"
	DefaultSearchLimit        = 20
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// SyncMode selects how the synchronizer treats pre-existing destination rows.
type SyncMode string

// SyncMode values.
const (
	// SyncModeStrict requires empty destination dependent tables and uses
	// plain inserts.
	SyncModeStrict SyncMode = "strict"
	// SyncModeResume tolerates pre-existing destination rows and uses
	// upsert-by-primary-key so a partial run can be continued.
	SyncModeResume SyncMode = "resume"
)

// DatabaseEndpoint holds the connection parameters for one PostgreSQL
// instance.
type DatabaseEndpoint struct {
	host     string
	port     int
	user     string
	password string
	database string
}

// NewDatabaseEndpoint creates a DatabaseEndpoint with defaults.
func NewDatabaseEndpoint() DatabaseEndpoint {
	return DatabaseEndpoint{
		host:     DefaultPostgresHost,
		port:     DefaultPostgresPort,
		user:     DefaultPostgresUser,
		password: DefaultPostgresPassword,
		database: DefaultPostgresDB,
	}
}

// Host returns the database host.
func (e DatabaseEndpoint) Host() string { return e.host }

// Port returns the database port.
func (e DatabaseEndpoint) Port() int { return e.port }

// User returns the database user.
func (e DatabaseEndpoint) User() string { return e.user }

// Database returns the database name.
func (e DatabaseEndpoint) Database() string { return e.database }

// URL renders the endpoint as a postgres:// connection URL.
func (e DatabaseEndpoint) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		e.user, e.password, e.host, e.port, e.database)
}

// Addr returns a credential-free description of the endpoint for logging.
func (e DatabaseEndpoint) Addr() string {
	return fmt.Sprintf("%s:%d/%s", e.host, e.port, e.database)
}

// EndpointOption is a functional option for DatabaseEndpoint.
type EndpointOption func(*DatabaseEndpoint)

// WithEndpointHost sets the host.
func WithEndpointHost(host string) EndpointOption {
	return func(e *DatabaseEndpoint) { e.host = host }
}

// WithEndpointPort sets the port.
func WithEndpointPort(port int) EndpointOption {
	return func(e *DatabaseEndpoint) {
		if port > 0 {
			e.port = port
		}
	}
}

// WithEndpointUser sets the user.
func WithEndpointUser(user string) EndpointOption {
	return func(e *DatabaseEndpoint) { e.user = user }
}

// WithEndpointPassword sets the password.
func WithEndpointPassword(password string) EndpointOption {
	return func(e *DatabaseEndpoint) { e.password = password }
}

// WithEndpointDatabase sets the database name.
func WithEndpointDatabase(name string) EndpointOption {
	return func(e *DatabaseEndpoint) { e.database = name }
}

// NewDatabaseEndpointWithOptions creates a DatabaseEndpoint with options.
func NewDatabaseEndpointWithOptions(opts ...EndpointOption) DatabaseEndpoint {
	e := NewDatabaseEndpoint()
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// SyncConfig holds the configuration for one synchronizer run.
type SyncConfig struct {
	source             DatabaseEndpoint
	target             DatabaseEndpoint
	nodeBatchSize      int
	embeddingBatchSize int
	mode               SyncMode
}

// NewSyncConfig creates a SyncConfig with defaults.
func NewSyncConfig() SyncConfig {
	return SyncConfig{
		source:             NewDatabaseEndpoint(),
		target:             NewDatabaseEndpoint(),
		nodeBatchSize:      DefaultNodeBatchSize,
		embeddingBatchSize: DefaultEmbeddingBatchSize,
		mode:               SyncModeStrict,
	}
}

// Source returns the source (read-only) endpoint.
func (c SyncConfig) Source() DatabaseEndpoint { return c.source }

// Target returns the target (write) endpoint.
func (c SyncConfig) Target() DatabaseEndpoint { return c.target }

// NodeBatchSize returns the batch size for node and contentdata transfers.
func (c SyncConfig) NodeBatchSize() int { return c.nodeBatchSize }

// EmbeddingBatchSize returns the batch size for embedding transfers.
// Embedding rows carry wide fixed-length vectors, so this stays smaller
// than NodeBatchSize to keep each statement under parameter limits.
func (c SyncConfig) EmbeddingBatchSize() int { return c.embeddingBatchSize }

// Mode returns the sync mode.
func (c SyncConfig) Mode() SyncMode { return c.mode }

// SyncOption is a functional option for SyncConfig.
type SyncOption func(*SyncConfig)

// WithSourceEndpoint sets the source endpoint.
func WithSourceEndpoint(e DatabaseEndpoint) SyncOption {
	return func(c *SyncConfig) { c.source = e }
}

// WithTargetEndpoint sets the target endpoint.
func WithTargetEndpoint(e DatabaseEndpoint) SyncOption {
	return func(c *SyncConfig) { c.target = e }
}

// WithNodeBatchSize sets the node/contentdata batch size.
func WithNodeBatchSize(n int) SyncOption {
	return func(c *SyncConfig) {
		if n > 0 {
			c.nodeBatchSize = n
		}
	}
}

// WithEmbeddingBatchSize sets the embedding batch size.
func WithEmbeddingBatchSize(n int) SyncOption {
	return func(c *SyncConfig) {
		if n > 0 {
			c.embeddingBatchSize = n
		}
	}
}

// WithSyncMode sets the sync mode.
func WithSyncMode(m SyncMode) SyncOption {
	return func(c *SyncConfig) { c.mode = m }
}

// NewSyncConfigWithOptions creates a SyncConfig with functional options.
func NewSyncConfigWithOptions(opts ...SyncOption) SyncConfig {
	c := NewSyncConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes describing the configuration.
// Credentials are never included.
func (c SyncConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("source", c.source.Addr()),
		slog.String("target", c.target.Addr()),
		slog.Int("node_batch_size", c.nodeBatchSize),
		slog.Int("embedding_batch_size", c.embeddingBatchSize),
		slog.String("mode", string(c.mode)),
	}
}

// SearchConfig holds the configuration for the semantic search service.
type SearchConfig struct {
	apiKey string
	model  string
	limit  int
}

// NewSearchConfig creates a SearchConfig with defaults.
func NewSearchConfig() SearchConfig {
	return SearchConfig{
		model: DefaultEmbeddingModel,
		limit: DefaultSearchLimit,
	}
}

// APIKey returns the OpenAI API key.
func (c SearchConfig) APIKey() string { return c.apiKey }

// Model returns the embedding model identifier.
func (c SearchConfig) Model() string { return c.model }

// Limit returns the default result limit.
func (c SearchConfig) Limit() int { return c.limit }

// SearchOption is a functional option for SearchConfig.
type SearchOption func(*SearchConfig)

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) SearchOption {
	return func(c *SearchConfig) { c.apiKey = key }
}

// WithModel sets the embedding model.
func WithModel(model string) SearchOption {
	return func(c *SearchConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLimit sets the default result limit.
func WithLimit(n int) SearchOption {
	return func(c *SearchConfig) {
		if n > 0 {
			c.limit = n
		}
	}
}

// NewSearchConfigWithOptions creates a SearchConfig with options.
func NewSearchConfigWithOptions(opts ...SearchOption) SearchConfig {
	c := NewSearchConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
