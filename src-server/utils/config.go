package utils

import (
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	port string

	catalogPath string
	intakeURL   string
	localesDir  string

	location *time.Location

	staticWebClientDir string

	metricCollectionInterval time.Duration
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		catalogPath: func() string {
			catalogPath := os.Getenv("CATALOG_PATH")
			if catalogPath == "" {
				slog.Error("CATALOG_PATH is not set")
				os.Exit(1)
			}
			info, err := os.Stat(catalogPath)
			if err != nil {
				slog.Error("can't get info of CATALOG_PATH", "error", err)
				os.Exit(1)
			}
			if info.IsDir() {
				slog.Error("CATALOG_PATH is a directory, expected a file")
				os.Exit(1)
			}
			slog.Debug("env", "CATALOG_PATH", catalogPath)
			return filepath.Clean(catalogPath)
		}(),
		intakeURL: func() string {
			intakeURL := os.Getenv("INTAKE_URL")
			if intakeURL == "" {
				slog.Error("INTAKE_URL is not set")
				os.Exit(1)
			}
			if _, err := url.ParseRequestURI(intakeURL); err != nil {
				slog.Error("invalid INTAKE_URL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "INTAKE_URL", intakeURL)
			return intakeURL
		}(),
		localesDir: func() string {
			localesDir := os.Getenv("LOCALES_DIR")
			if localesDir == "" {
				slog.Error("LOCALES_DIR is not set")
				os.Exit(1)
			}
			info, err := os.Stat(localesDir)
			if err != nil {
				slog.Error("can't get info of LOCALES_DIR", "error", err)
				os.Exit(1)
			}
			if !info.IsDir() {
				slog.Error("LOCALES_DIR is not a directory")
				os.Exit(1)
			}
			slog.Debug("env", "LOCALES_DIR", localesDir)
			return filepath.Clean(localesDir)
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				slog.Warn("TIMEZONE is set to UTC, using UTC timezone", "timezone", time.UTC)
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),

		staticWebClientDir: func() string {
			staticWebClientDir := os.Getenv("STATIC_WEB_CLIENT_DIR")
			if staticWebClientDir == "" {
				slog.Error("STATIC_WEB_CLIENT_DIR is not set")
				os.Exit(1)
			}
			info, err := os.Stat(staticWebClientDir)
			if err != nil {
				slog.Error("can't get info of STATIC_WEB_CLIENT_DIR", "error", err)
				os.Exit(1)
			}
			if !info.IsDir() {
				slog.Error("STATIC_WEB_CLIENT_DIR is not a directory", "error", err)
				os.Exit(1)
			}

			slog.Debug("env", "STATIC_WEB_CLIENT_DIR", staticWebClientDir)
			return filepath.Clean(staticWebClientDir)
		}(),

		metricCollectionInterval: func() time.Duration {
			metricCollectionInterval := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if metricCollectionInterval == "" {
				metricCollectionInterval = "60s"
			}
			duration, err := time.ParseDuration(metricCollectionInterval)
			if err != nil {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", metricCollectionInterval)
			return duration
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get CATALOG_PATH env
func (c *Config) GetCatalogPath() string {
	return c.catalogPath
}

// Get INTAKE_URL env
func (c *Config) GetIntakeURL() string {
	return c.intakeURL
}

// Get LOCALES_DIR env
func (c *Config) GetLocalesDir() string {
	return c.localesDir
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get STATIC_WEB_CLIENT_DIR env
func (c *Config) GetStaticWebClientDir() string {
	return c.staticWebClientDir
}

// Get METRIC_COLLECTION_INTERVAL env, default to 60s
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}
