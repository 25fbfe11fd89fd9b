package searchd

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	redisAddrs    []string
	redisPassword string
	postgresDSN   string

	keyPrefix        string
	vectorDimensions int

	embedder  Embedder
	suggester Suggester

	fusionSemantic float64
	fusionKeyword  float64

	analyticsTTL time.Duration
	maxPageSize  int

	logger *zap.Logger
}

// WithRedis configures the document store connection.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPassword = password
	})
}

// WithPostgres configures the audit log connection.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.postgresDSN = dsn
	})
}

// WithKeyPrefix sets the Redis key namespace. Defaults to "searchd:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithEmbedder sets the text embedding provider. Defaults to a
// deterministic local embedder that needs no external service.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithSuggester sets the related-query suggester used by Suggestions.
func WithSuggester(s Suggester) Option {
	return optionFunc(func(c *clientConfig) {
		c.suggester = s
	})
}

// WithVectorDimensions sets the embedding dimensionality. Defaults to 256.
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorDimensions = dim
	})
}

// WithFusionWeights overrides the hybrid fusion policy. Defaults to
// 0.7 semantic / 0.3 keyword.
func WithFusionWeights(semantic, keyword float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.fusionSemantic = semantic
		c.fusionKeyword = keyword
	})
}

// WithAnalyticsCacheTTL sets how long rendered analytics reports are
// cached. Defaults to one minute.
func WithAnalyticsCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.analyticsTTL = ttl
	})
}

// WithMaxPageSize caps the search page size. Defaults to 100.
func WithMaxPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxPageSize = n
	})
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
