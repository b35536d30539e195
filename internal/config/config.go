package config

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultUserAgent is the default User-Agent string sent with all catalog requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:147.0) Gecko/20100101 Firefox/147.0"

// DefaultAPIURL is the catalog mirror used when no api_url is configured.
const DefaultAPIURL = "https://tv-v2.api-fetch.website/"

type Config struct {
	APIURLs               []string `mapstructure:"api_url"`
	UniqueID              string   `mapstructure:"unique_id"` // "tvdb_id" or "imdb_id"
	Translate             bool     `mapstructure:"translate"`
	Language              string   `mapstructure:"language"`
	SourceLanguage        string   `mapstructure:"source_language"`
	ProxyConnectionString string   `mapstructure:"proxy_connection_string"`
	ClientTimeout         string   `mapstructure:"client_timeout"` // Go duration string like "30s", "1h", etc.
	UserAgent             string   `mapstructure:"user_agent"`
	LogLevel              string   `mapstructure:"log_level"`
	Log                   struct {
		File       string `mapstructure:"file"`
		MaxSize    int    `mapstructure:"max_size"` // megabytes
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAge     int    `mapstructure:"max_age"` // days
		Compress   bool   `mapstructure:"compress"`
	} `mapstructure:"log"`
	Server struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	GRPC struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"grpc"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
	TVDB struct {
		APIKey  string `mapstructure:"api_key"`
		BaseURL string `mapstructure:"base_url"`
		Timeout string `mapstructure:"timeout"`
	} `mapstructure:"tvdb"`
	Enrichment struct {
		Timeout string `mapstructure:"timeout"`
	} `mapstructure:"enrichment"`
	Sentry struct {
		DSN         string `mapstructure:"dsn"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"sentry"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	ConfigureLogger(config)
	globalConfig = config
	logger.Debug().Strs("api_url", config.APIURLs).Msg("Configuration loaded successfully")
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variable support
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Add specific environment variable for log level
	_ = v.BindEnv("log_level", "LOG_LEVEL")

	v.SetDefault("api_url", []string{DefaultAPIURL})
	v.SetDefault("unique_id", "tvdb_id")
	v.SetDefault("translate", false)
	v.SetDefault("language", "en")
	v.SetDefault("source_language", "en")
	v.SetDefault("client_timeout", "30s")
	v.SetDefault("server.address", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("grpc.port", 8081)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("tvdb.base_url", "https://api4.thetvdb.com/v4")
	v.SetDefault("tvdb.timeout", "15s")
	v.SetDefault("enrichment.timeout", "2s")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	config.APIURLs = splitAPIURLs(config.APIURLs)

	return &config, nil
}

// splitAPIURLs accepts both a YAML list and a comma separated env value (APP_API_URL="a,b").
func splitAPIURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		for _, part := range strings.Split(u, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	if len(out) == 0 {
		return []string{DefaultAPIURL}
	}
	return out
}

// ConfigureLogger applies the log level and optional rotating log file from cfg
// to the package logger.
func ConfigureLogger(cfg *Config) {
	level := zerolog.InfoLevel // default
	if cfg.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", cfg.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stdout}
	if cfg.Log.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
			Compress:   cfg.Log.Compress,
		}
		out = zerolog.MultiLevelWriter(out, fileWriter)
	}

	logger = zerolog.New(out).With().Timestamp().Logger().Level(level)
	if cfg.Log.File != "" {
		logger.Info().Str("file", cfg.Log.File).Msg("Logging to file")
	}
}

func GetConfig() *Config {
	return globalConfig
}

func GetLogger() zerolog.Logger {
	return logger
}
