package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the movielib CLI.
type Config struct {
	DatabaseDSN string        `mapstructure:"database_dsn"`
	OMDbAPIKey  string        `mapstructure:"omdb_api_key"`
	OMDbBaseURL string        `mapstructure:"omdb_base_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	SingleUser    bool          `mapstructure:"single_user"`
	SessionSecret string        `mapstructure:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	SessionFile   string        `mapstructure:"session_file"`

	OutputDir    string `mapstructure:"output_dir"`
	GalleryTitle string `mapstructure:"gallery_title"`
	TemplateFile string `mapstructure:"template_file"`

	S3Bucket       string        `mapstructure:"s3_bucket"`
	S3Region       string        `mapstructure:"s3_region"`
	S3BaseEndpoint string        `mapstructure:"s3_base_endpoint"`
	S3AccessKey    string        `mapstructure:"s3_access_key"`
	S3SecretKey    string        `mapstructure:"s3_secret_key"`
	PresignTTL     time.Duration `mapstructure:"presign_ttl"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "movies.db"
	c.OMDbBaseURL = "https://www.omdbapi.com/"
	c.HTTPTimeout = 10 * time.Second
	c.LogLevel = "warn"
	c.LogFormat = "slog"
	c.SessionTTL = 7 * 24 * time.Hour
	c.SessionFile = defaultSessionFile()
	c.OutputDir = "."
	c.GalleryTitle = "Movie Library"
	c.S3Region = "us-east-1"
	c.PresignTTL = 15 * time.Minute
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".movielib-session"
	}
	return filepath.Join(dir, "movielib", "session")
}

// LoadConfig constructs a Config from defaults, .env, the config file and
// environment, then flags. It panics on a malformed file or flag.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	loadDotEnv(".env")
	parseFile(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
