package config

import (
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Library
		Analysis
		Export
		Global
		Log
		Metrics
	}

	HTTP struct {
		Port       int32
		Host       string
		IndexLimit int // Books rendered on "/"
		APILimit   int // Books returned by "/books.json"
	}
	Library struct {
		Path string // Calibre library directory containing metadata.db
	}
	Analysis struct {
		ImageEnabled bool
		CacheSize    int // Cross-request analysis LRU entries, 0 disables
	}
	Export struct {
		Output        string
		RemoteBaseURL string
		Schedule      string // Cron format: "0 * * * *" = hourly, empty disables
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Log struct {
		Level slog.Level
	}
	Metrics struct {
		Enabled bool
	}
)

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("host", DefaultHost)
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("library_path", "")
	v.SetDefault("index_limit", DefaultIndexLimit)
	v.SetDefault("api_limit", DefaultAPILimit)

	// Cover analysis defaults
	v.SetDefault("image_analysis_enabled", true)
	v.SetDefault("analysis_cache_size", DefaultAnalysisCacheSize)

	// Export defaults
	v.SetDefault("export_output", DefaultExportOutput)
	v.SetDefault("export_remote_base_url", DefaultExportRemoteBaseURL)
	v.SetDefault("export_schedule", "") // Disabled

	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_enabled", true)

	return &Config{
		HTTP: HTTP{
			Port:       v.GetInt32("PORT"),
			Host:       v.GetString("HOST"),
			IndexLimit: v.GetInt("INDEX_LIMIT"),
			APILimit:   v.GetInt("API_LIMIT"),
		},
		Library: Library{
			Path: v.GetString("LIBRARY_PATH"),
		},
		Analysis: Analysis{
			ImageEnabled: v.GetBool("IMAGE_ANALYSIS_ENABLED"),
			CacheSize:    v.GetInt("ANALYSIS_CACHE_SIZE"),
		},
		Export: Export{
			Output:        v.GetString("EXPORT_OUTPUT"),
			RemoteBaseURL: v.GetString("EXPORT_REMOTE_BASE_URL"),
			Schedule:      v.GetString("EXPORT_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Log: Log{
			Level: ParseLevel(v.GetString("LOG_LEVEL")),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}
}
