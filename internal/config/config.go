package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the search service
type Config struct {
	Dataset DatasetConfig `yaml:"dataset"`
	Search  SearchConfig  `yaml:"search"`
	API     APIConfig     `yaml:"api"`
	Log     LogConfig     `yaml:"log"`
}

// DatasetConfig locates the corpus and tunes its reader
type DatasetConfig struct {
	Path      string `yaml:"path"`
	Sheet     string `yaml:"sheet"`
	Table     string `yaml:"table"`
	Delimiter string `yaml:"delimiter"`
}

// SearchConfig holds index and ranking configuration
type SearchConfig struct {
	DefaultTopK   int    `yaml:"default_top_k"`
	MaxTopK       int    `yaml:"max_top_k"`
	IndexWorkers  int    `yaml:"index_workers"`
	Stemming      bool   `yaml:"stemming"`
	StopWordsFile string `yaml:"stop_words_file"`
}

// APIConfig holds HTTP server configuration
type APIConfig struct {
	BindAddr        string        `yaml:"bind_addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path:      "Dataset/NewsArticelAll_Enchant.xlsx",
			Table:     "articles",
			Delimiter: ",",
		},
		Search: SearchConfig{
			DefaultTopK:  5,
			MaxTopK:      20,
			IndexWorkers: runtime.NumCPU(),
		},
		API: APIConfig{
			BindAddr:        ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

// LoadFile reads a YAML file over the defaults, then applies environment
// variables on top. An empty path behaves like Load.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Dataset.Path = GetStringEnv("DATASET_PATH", c.Dataset.Path)
	c.Dataset.Sheet = GetStringEnv("DATASET_SHEET", c.Dataset.Sheet)
	c.Dataset.Table = GetStringEnv("DATASET_TABLE", c.Dataset.Table)
	c.Dataset.Delimiter = GetStringEnv("DATASET_DELIMITER", c.Dataset.Delimiter)

	c.Search.DefaultTopK = GetIntEnv("SEARCH_DEFAULT_TOP_K", c.Search.DefaultTopK)
	c.Search.MaxTopK = GetIntEnv("SEARCH_MAX_TOP_K", c.Search.MaxTopK)
	c.Search.IndexWorkers = GetIntEnv("SEARCH_INDEX_WORKERS", c.Search.IndexWorkers)
	c.Search.Stemming = GetBoolEnv("SEARCH_STEMMING", c.Search.Stemming)
	c.Search.StopWordsFile = GetStringEnv("SEARCH_STOP_WORDS_FILE", c.Search.StopWordsFile)

	c.API.BindAddr = GetStringEnv("API_BIND_ADDR", c.API.BindAddr)
	c.API.ReadTimeout = GetDurationEnv("API_READ_TIMEOUT", c.API.ReadTimeout)
	c.API.WriteTimeout = GetDurationEnv("API_WRITE_TIMEOUT", c.API.WriteTimeout)
	c.API.ShutdownTimeout = GetDurationEnv("API_SHUTDOWN_TIMEOUT", c.API.ShutdownTimeout)

	c.Log.Level = GetStringEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = GetStringEnv("LOG_FORMAT", c.Log.Format)
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("DATASET_PATH must be set")
	}
	if utf8.RuneCountInString(c.Dataset.Delimiter) != 1 {
		return fmt.Errorf("DATASET_DELIMITER must be a single character")
	}
	if c.Search.DefaultTopK <= 0 {
		return fmt.Errorf("SEARCH_DEFAULT_TOP_K must be positive")
	}
	if c.Search.MaxTopK <= 0 {
		return fmt.Errorf("SEARCH_MAX_TOP_K must be positive")
	}
	if c.Search.DefaultTopK > c.Search.MaxTopK {
		return fmt.Errorf("SEARCH_DEFAULT_TOP_K cannot exceed SEARCH_MAX_TOP_K")
	}
	if c.Search.IndexWorkers < 1 {
		return fmt.Errorf("SEARCH_INDEX_WORKERS must be at least 1")
	}
	if c.API.ShutdownTimeout <= 0 {
		return fmt.Errorf("API_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// DelimiterRune returns the configured field delimiter, ',' when unset
func (d DatasetConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(d.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
