package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/lead-cli/internal/model"
)

// Operations that Validate knows how to check.
const (
	OpDiscovery = "discovery"
	OpEnrich    = "enrich"
	OpOwner     = "owner"
	OpServe     = "serve"
)

// Config holds the full application configuration.
type Config struct {
	Google     GoogleConfig     `yaml:"google" mapstructure:"google"`
	Apollo     ApolloConfig     `yaml:"apollo" mapstructure:"apollo"`
	PDL        ProviderConfig   `yaml:"pdl" mapstructure:"pdl"`
	Hunter     ProviderConfig   `yaml:"hunter" mapstructure:"hunter"`
	Numverify  ProviderConfig   `yaml:"numverify" mapstructure:"numverify"`
	Yelp       ProviderConfig   `yaml:"yelp" mapstructure:"yelp"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Discovery  DiscoveryConfig  `yaml:"discovery" mapstructure:"discovery"`
	Enrich     EnrichConfig     `yaml:"enrich" mapstructure:"enrich"`
	Retry      RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// ProviderConfig holds the key and endpoint of a keyed REST provider.
type ProviderConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// GoogleConfig holds Places and Geocoding API settings.
type GoogleConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	GeocodeURL string `yaml:"geocode_url" mapstructure:"geocode_url"`
}

// ApolloConfig holds Apollo API settings.
type ApolloConfig struct {
	Key      string `yaml:"key" mapstructure:"key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	PageSize int    `yaml:"page_size" mapstructure:"page_size"`
}

// AnthropicConfig holds Anthropic API settings for the primary analyzer.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// PerplexityConfig holds Perplexity API settings for the secondary analyzer.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// Place-search pacing. A continuation token is rejected by the provider
// until shortly after it is issued, so its delay has a hard floor.
const (
	MinPageTokenDelayMs  = 2000
	DefaultDetailDelayMs = 100
	DefaultBatchDelayMs  = 500
)

// DiscoveryConfig configures place-search pacing and limits.
type DiscoveryConfig struct {
	PageTokenDelayMs int     `yaml:"page_token_delay_ms" mapstructure:"page_token_delay_ms"`
	DetailDelayMs    int     `yaml:"detail_delay_ms" mapstructure:"detail_delay_ms"`
	BatchDelayMs     int     `yaml:"batch_delay_ms" mapstructure:"batch_delay_ms"`
	MaxPages         int     `yaml:"max_pages" mapstructure:"max_pages"`
	DefaultRadiusM   float64 `yaml:"default_radius_m" mapstructure:"default_radius_m"`
	MaxRadiusM       float64 `yaml:"max_radius_m" mapstructure:"max_radius_m"`
}

// EnrichConfig configures the enrichment orchestrator.
type EnrichConfig struct {
	ParallelAI         bool `yaml:"parallel_ai" mapstructure:"parallel_ai"`
	MaxConcurrentLeads int  `yaml:"max_concurrent_leads" mapstructure:"max_concurrent_leads"`
}

// RetryConfig configures the provider retry policy. The default is a single
// attempt per call.
type RetryConfig struct {
	MaxAttempts      int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int     `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int     `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	Multiplier       float64 `yaml:"multiplier" mapstructure:"multiplier"`
	JitterFraction   float64 `yaml:"jitter_fraction" mapstructure:"jitter_fraction"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// Lead repository drivers.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// StoreConfig selects the lead repository used by the HTTP server.
type StoreConfig struct {
	Driver   string `yaml:"driver" mapstructure:"driver"`
	DSN      string `yaml:"dsn" mapstructure:"dsn"`
	MaxConns int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if cfg.Apollo.PageSize > 100 || cfg.Apollo.PageSize <= 0 {
		cfg.Apollo.PageSize = 100
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Keys without a default are bound explicitly so AutomaticEnv can fill
	// them during Unmarshal.
	for _, k := range []string{
		"google.key", "apollo.key", "pdl.key", "hunter.key",
		"numverify.key", "yelp.key", "anthropic.key", "perplexity.key",
	} {
		_ = v.BindEnv(k)
	}

	v.SetDefault("google.base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("google.geocode_url", "https://maps.googleapis.com/maps/api/geocode")
	v.SetDefault("apollo.base_url", "https://api.apollo.io/api/v1")
	v.SetDefault("apollo.page_size", 25)
	v.SetDefault("pdl.base_url", "https://api.peopledatalabs.com/v5")
	v.SetDefault("hunter.base_url", "https://api.hunter.io/v2")
	v.SetDefault("numverify.base_url", "http://apilayer.net/api")
	v.SetDefault("yelp.base_url", "https://api.yelp.com/v3")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")

	v.SetDefault("discovery.page_token_delay_ms", MinPageTokenDelayMs)
	v.SetDefault("discovery.detail_delay_ms", DefaultDetailDelayMs)
	v.SetDefault("discovery.batch_delay_ms", DefaultBatchDelayMs)
	v.SetDefault("discovery.max_pages", 3)
	v.SetDefault("discovery.default_radius_m", 5000)
	v.SetDefault("discovery.max_radius_m", 50000)

	v.SetDefault("enrich.parallel_ai", false)
	v.SetDefault("enrich.max_concurrent_leads", 5)

	v.SetDefault("retry.max_attempts", 1)
	v.SetDefault("retry.initial_backoff_ms", 500)
	v.SetDefault("retry.max_backoff_ms", 30000)
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("retry.jitter_fraction", 0.25)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("store.driver", StoreMemory)
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks the settings a top-level operation depends on. A missing
// required credential yields an error wrapping model.ErrMissingCredentials;
// enrichment credentials are all optional.
func (c *Config) Validate(op string) error {
	var required []string
	switch op {
	case OpDiscovery, OpServe:
		required = append(required, "google.key")
	case OpOwner:
		required = append(required, "pdl.key")
	case OpEnrich:
	default:
		return eris.Errorf("config: unknown mode %q", op)
	}

	var missing []string
	for _, k := range required {
		if !IsConfigured(c.key(k)) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return eris.Wrapf(model.ErrMissingCredentials, "config: %s requires %s", op, strings.Join(missing, ", "))
	}

	var errs []string
	if op == OpServe {
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		switch c.Store.Driver {
		case StoreMemory:
		case StoreSQLite, StorePostgres:
			if strings.TrimSpace(c.Store.DSN) == "" {
				errs = append(errs, "store.dsn is required for the "+c.Store.Driver+" driver")
			}
		default:
			errs = append(errs, "store.driver must be one of memory, sqlite, postgres")
		}
	}
	if c.Enrich.MaxConcurrentLeads < 1 || c.Enrich.MaxConcurrentLeads > 50 {
		errs = append(errs, "enrich.max_concurrent_leads must be between 1 and 50")
	}
	if c.Discovery.MaxPages < 1 || c.Discovery.MaxPages > 3 {
		errs = append(errs, "discovery.max_pages must be between 1 and 3")
	}
	if c.Discovery.PageTokenDelayMs < MinPageTokenDelayMs {
		errs = append(errs, fmt.Sprintf("discovery.page_token_delay_ms must be >= %d", MinPageTokenDelayMs))
	}
	if c.Discovery.DetailDelayMs <= 0 {
		errs = append(errs, "discovery.detail_delay_ms must be > 0")
	}
	if c.Discovery.BatchDelayMs <= 0 {
		errs = append(errs, "discovery.batch_delay_ms must be > 0")
	}
	if c.Discovery.DefaultRadiusM <= 0 || c.Discovery.DefaultRadiusM > c.Discovery.MaxRadiusM {
		errs = append(errs, "discovery.default_radius_m must be > 0 and <= max_radius_m")
	}
	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) key(name string) string {
	switch name {
	case "google.key":
		return c.Google.Key
	case "pdl.key":
		return c.PDL.Key
	}
	return ""
}

var placeholders = map[string]bool{
	"your-api-key":      true,
	"your_api_key":      true,
	"your_api_key_here": true,
	"your-api-key-here": true,
	"api-key":           true,
	"changeme":          true,
	"placeholder":       true,
	"todo":              true,
	"none":              true,
	"null":              true,
}

// IsConfigured reports whether a credential holds a real value rather than
// being empty or an obvious placeholder.
func IsConfigured(key string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" || placeholders[k] {
		return false
	}
	if strings.HasPrefix(k, "your") {
		return false
	}
	// "xxx", "sk-xxxx", "pplx-xxxxxxxx"
	if i := strings.LastIndexByte(k, '-'); i >= 0 {
		k = k[i+1:]
	}
	return strings.Trim(k, "x*.") != ""
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
