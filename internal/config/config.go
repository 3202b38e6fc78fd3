package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Lexicon   LexiconConfig   `yaml:"lexicon"`
	Translate TranslateConfig `yaml:"translate"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Lookup    LookupConfig    `yaml:"lookup"`
	Dispatch  DispatchConfig  `yaml:"dispatch"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// RateLimitConfig holds per-client request limits for the query API.
type RateLimitConfig struct {
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"RATE_LIMIT_RPM"              env-default:"60"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"    env:"RATE_LIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// LexiconConfig selects which lexical-database languages are queried.
// SourceLang tags lemmas ("ita"), DefinitionLang tags glosses ("eng").
type LexiconConfig struct {
	SourceLang     string `yaml:"source_lang"     env:"LEXICON_SOURCE_LANG"     env-default:"ita"`
	DefinitionLang string `yaml:"definition_lang" env:"LEXICON_DEFINITION_LANG" env-default:"eng"`
}

// Translation providers.
const (
	TranslateProviderNone      = "none"
	TranslateProviderOpusMT    = "opusmt"
	TranslateProviderLambda    = "lambda"
	TranslateProviderAnthropic = "anthropic"
	TranslateProviderOpenAI    = "openai"
)

// TranslateConfig holds translation client settings.
type TranslateConfig struct {
	Provider   string        `yaml:"provider"    env:"TRANSLATE_PROVIDER"    env-default:"opusmt"`
	SourceLang string        `yaml:"source_lang" env:"TRANSLATE_SOURCE_LANG" env-default:"en"`
	TargetLang string        `yaml:"target_lang" env:"TRANSLATE_TARGET_LANG" env-default:"ru"`
	Timeout    time.Duration `yaml:"timeout"     env:"TRANSLATE_TIMEOUT"     env-default:"15s"`
	// CacheSize bounds the in-process translation cache; 0 disables it.
	CacheSize int `yaml:"cache_size" env:"TRANSLATE_CACHE_SIZE" env-default:"4096"`

	OpusMT    OpusMTConfig    `yaml:"opusmt"`
	Lambda    LambdaConfig    `yaml:"lambda"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
}

// OpusMTConfig points at an HTTP inference endpoint serving a Marian/Opus-MT model.
type OpusMTConfig struct {
	BaseURL string `yaml:"base_url" env:"OPUSMT_BASE_URL" env-default:"https://api-inference.huggingface.co/models"`
	Model   string `yaml:"model"    env:"OPUSMT_MODEL"    env-default:"Helsinki-NLP/opus-mt-en-ru"`
	APIKey  string `yaml:"api_key"  env:"OPUSMT_API_KEY"`
}

// LambdaConfig names an AWS Lambda that runs an Opus-MT translator.
type LambdaConfig struct {
	FunctionName string `yaml:"function_name" env:"TRANSLATE_LAMBDA_FUNCTION" env-default:"opus-mt-en-ru"`
	Region       string `yaml:"region"        env:"TRANSLATE_LAMBDA_REGION"`
}

// AnthropicConfig holds LLM translation settings for Anthropic models.
type AnthropicConfig struct {
	APIKey    string `yaml:"api_key"    env:"ANTHROPIC_API_KEY"`
	Model     string `yaml:"model"      env:"ANTHROPIC_MODEL"      env-default:"claude-3-5-haiku-latest"`
	MaxTokens int    `yaml:"max_tokens" env:"ANTHROPIC_MAX_TOKENS" env-default:"512"`
}

// OpenAIConfig holds LLM translation settings for OpenAI-compatible APIs.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"  env:"OPENAI_API_KEY"`
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL"`
	Model   string `yaml:"model"    env:"OPENAI_MODEL"    env-default:"gpt-4o-mini"`
}

// Corpus sources.
const (
	CorpusSourceFile = "file"
	CorpusSourceS3   = "s3"
)

// CorpusConfig locates the TMX parallel corpus.
type CorpusConfig struct {
	Source string         `yaml:"source" env:"CORPUS_SOURCE" env-default:"file"`
	Path   string         `yaml:"path"   env:"CORPUS_PATH"   env-default:"./data/it-ru.tmx"`
	S3     CorpusS3Config `yaml:"s3"`
}

// CorpusS3Config locates the corpus object in S3-compatible storage.
type CorpusS3Config struct {
	Bucket       string `yaml:"bucket"         env:"CORPUS_S3_BUCKET"`
	Key          string `yaml:"key"            env:"CORPUS_S3_KEY"`
	Region       string `yaml:"region"         env:"CORPUS_S3_REGION"`
	Endpoint     string `yaml:"endpoint"       env:"CORPUS_S3_ENDPOINT"`
	UsePathStyle bool   `yaml:"use_path_style" env:"CORPUS_S3_USE_PATH_STYLE" env-default:"false"`
	AccessKey    string `yaml:"access_key"     env:"CORPUS_S3_ACCESS_KEY"`
	SecretKey    string `yaml:"secret_key"     env:"CORPUS_S3_SECRET_KEY"`
}

// LookupConfig tunes the query services.
type LookupConfig struct {
	MaxParallelTranslations int           `yaml:"max_parallel_translations" env:"LOOKUP_MAX_PARALLEL_TRANSLATIONS" env-default:"4"`
	QueryTimeout            time.Duration `yaml:"query_timeout"             env:"LOOKUP_QUERY_TIMEOUT"             env-default:"45s"`
}

// DispatchConfig bounds the in-memory session store.
type DispatchConfig struct {
	SessionStoreSize int           `yaml:"session_store_size" env:"DISPATCH_SESSION_STORE_SIZE" env-default:"10000"`
	SessionTTL       time.Duration `yaml:"session_ttl"        env:"DISPATCH_SESSION_TTL"        env-default:"24h"`
}
