package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	News        NewsConfig      `toml:"news"`
	FRED        FREDConfig      `toml:"fred"`
	ECOS        ECOSConfig      `toml:"ecos"`
	LLM         LLMConfig       `toml:"llm"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude"`
	Profile     ProfileConfig   `toml:"profile"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Export      ExportConfig    `toml:"export"`
	Notion      NotionConfig    `toml:"notion"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// StorageConfig selects and configures the report store backend
type StorageConfig struct {
	Type   string       `toml:"type"` // "sqlite" (default) or "badger"
	SQLite SQLiteConfig `toml:"sqlite"`
	Badger BadgerConfig `toml:"badger"`
}

// SQLiteConfig represents SQLite-specific configuration
type SQLiteConfig struct {
	Path          string `toml:"path"`            // Database file path
	CacheSizeMB   int    `toml:"cache_size_mb"`   // Page cache size in MB
	BusyTimeoutMS int    `toml:"busy_timeout_ms"` // Lock wait before SQLITE_BUSY
	WALMode       bool   `toml:"wal_mode"`        // Write-ahead logging
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path     string `toml:"path"`      // Database directory path
	InMemory bool   `toml:"in_memory"` // Keep data in memory (tests)
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewsConfig contains the RSS news feed endpoints and caps
type NewsConfig struct {
	GeneralFeedURL  string        `toml:"general_feed_url"`  // general-interest feed (Yonhap)
	BusinessFeedURL string        `toml:"business_feed_url"` // business feed (Hankyung)
	SearchBaseURL   string        `toml:"search_base_url"`   // keyword search feed (Google News)
	PerFeedLimit    int           `toml:"per_feed_limit"`    // items taken from each feed
	MaxHeadlines    int           `toml:"max_headlines"`     // overall headline cap
	Timeout         time.Duration `toml:"timeout"`           // per-feed fetch timeout
}

// FREDConfig contains St. Louis Fed FRED API configuration
type FREDConfig struct {
	APIKey    string        `toml:"api_key"`
	BaseURL   string        `toml:"base_url"`
	Timeout   time.Duration `toml:"timeout"`
	RateLimit int           `toml:"rate_limit"` // requests per second
}

// ECOSConfig contains Bank of Korea ECOS API configuration
type ECOSConfig struct {
	APIKey  string        `toml:"api_key"`
	BaseURL string        `toml:"base_url"`
	Timeout time.Duration `toml:"timeout"`
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig selects the text-generation provider
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "gemini" or "claude" (default: "gemini")
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`       // default: "gemini-2.5-flash"
	Timeout     string  `toml:"timeout"`     // duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // default: 0.3
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`       // default: "claude-haiku-3-5-20241022"
	MaxTokens   int     `toml:"max_tokens"`  // default: 8192
	Timeout     string  `toml:"timeout"`     // duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // default: 0.3
}

// ProfileConfig is the static reader profile included in every aggregate
type ProfileConfig struct {
	RiskPreference string   `toml:"risk_preference"`
	Interests      []string `toml:"interests"`
}

// SchedulerConfig drives optional cron-based report generation
type SchedulerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // cron format with seconds field
	Kind     string `toml:"kind"`     // daily | weekly | monthly
	Mode     string `toml:"mode"`     // data | analysis
}

// ExportConfig configures file exports
type ExportConfig struct {
	Dir string `toml:"dir"` // directory for exported md/pdf files
}

// NotionConfig configures the Notion publisher
type NotionConfig struct {
	Token  string `toml:"token"`
	PageID string `toml:"page_id"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Type: "sqlite",
			SQLite: SQLiteConfig{
				Path:          "./data/reports.db",
				CacheSizeMB:   10,
				BusyTimeoutMS: 5000,
				WALMode:       true,
			},
			Badger: BadgerConfig{
				Path: "./data/badger",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		News: NewsConfig{
			GeneralFeedURL:  "https://www.yna.co.kr/rss/all.xml",
			BusinessFeedURL: "https://www.hankyung.com/feed/",
			SearchBaseURL:   "https://news.google.com/rss/search",
			PerFeedLimit:    5,
			MaxHeadlines:    10,
			Timeout:         20 * time.Second,
		},
		FRED: FREDConfig{
			BaseURL:   "https://api.stlouisfed.org/fred",
			Timeout:   20 * time.Second,
			RateLimit: 10,
		},
		ECOS: ECOSConfig{
			BaseURL: "https://ecos.bok.or.kr/api",
			Timeout: 20 * time.Second,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.5-flash",
			Timeout:     "2m",
			Temperature: 0.3,
		},
		Claude: ClaudeConfig{
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Timeout:     "2m",
			Temperature: 0.3,
		},
		Profile: ProfileConfig{
			RiskPreference: "neutral",
			Interests:      []string{"semiconductors", "real estate"},
		},
		Scheduler: SchedulerConfig{
			Enabled:  false,
			Schedule: "0 0 7 * * *", // 07:00 daily
			Kind:     "daily",
			Mode:     "analysis",
		},
		Export: ExportConfig{
			Dir: "./exports",
		},
	}
}

// LoadFromFile loads configuration from a single TOML file
func LoadFromFile(path string) (*Config, error) {
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration with precedence:
// defaults -> file1 -> file2 -> ... -> environment variables.
// Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies ONECLICK_* environment variables plus the
// conventional provider credential variables over the loaded config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ONECLICK_ENVIRONMENT"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("ONECLICK_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("ONECLICK_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if storageType := os.Getenv("ONECLICK_STORAGE_TYPE"); storageType != "" {
		config.Storage.Type = storageType
	}
	if path := os.Getenv("ONECLICK_SQLITE_PATH"); path != "" {
		config.Storage.SQLite.Path = path
	}
	if path := os.Getenv("ONECLICK_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if level := os.Getenv("ONECLICK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("ONECLICK_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Provider credentials follow each provider's conventional variable,
	// matching what the upstream SDKs and docs use.
	if key := os.Getenv("FRED_KEY"); key != "" {
		config.FRED.APIKey = key
	}
	if key := os.Getenv("ECOS_KEY"); key != "" {
		config.ECOS.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if provider := os.Getenv("ONECLICK_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}
	if token := os.Getenv("NOTION_TOKEN"); token != "" {
		config.Notion.Token = token
	}
	if pageID := os.Getenv("NOTION_PAGE_ID"); pageID != "" {
		config.Notion.PageID = pageID
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks configuration consistency before startup
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "sqlite", "badger":
	default:
		return fmt.Errorf("storage.type must be 'sqlite' or 'badger', got '%s'", c.Storage.Type)
	}

	switch c.LLM.DefaultProvider {
	case LLMProviderGemini, LLMProviderClaude:
	default:
		return fmt.Errorf("llm.default_provider must be 'gemini' or 'claude', got '%s'", c.LLM.DefaultProvider)
	}

	if c.News.MaxHeadlines <= 0 {
		return fmt.Errorf("news.max_headlines must be positive, got %d", c.News.MaxHeadlines)
	}
	if c.News.PerFeedLimit <= 0 {
		return fmt.Errorf("news.per_feed_limit must be positive, got %d", c.News.PerFeedLimit)
	}

	if c.Scheduler.Enabled {
		if err := ValidateSchedule(c.Scheduler.Schedule); err != nil {
			return fmt.Errorf("scheduler.schedule invalid: %w", err)
		}
	}

	return nil
}

// ValidateSchedule validates a cron schedule expression (with seconds field)
func ValidateSchedule(schedule string) error {
	if strings.TrimSpace(schedule) == "" {
		return fmt.Errorf("schedule is empty")
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression '%s': %w", schedule, err)
	}
	return nil
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
