package config

const (
	defaultProjectDir        = "."
	defaultDatabaseDir       = ".tmatch"
	defaultMaxResults        = 10
	defaultMinScore          = 0
	defaultTokenCacheSize    = 100_000
	defaultTokenizer         = TokenizerAuto
	defaultBatchSize         = 500
	defaultReportInterval    = 1000
	defaultMaxRetries        = 3
	defaultRetryDelayMillis  = 100
	defaultLogLevel          = "info"
	defaultConfigFileName    = "tmatch.toml"
	defaultSupportsDefaults  = true
	defaultStorageCompressed = false
)

// Tokenizer selections.
const (
	// TokenizerAuto picks a tokenizer from the project source language.
	TokenizerAuto = "auto"
	// TokenizerDefault splits on non-letter boundaries.
	TokenizerDefault = "default"
	// TokenizerStemming stems tokens with Snowball.
	TokenizerStemming = "stemming"
	// TokenizerSegmenting splits on Unicode word boundaries.
	TokenizerSegmenting = "segmenting"
)
