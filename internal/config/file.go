package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dmitrijs2005/movielib/internal/flagx"
)

const envPrefix = "MOVIELIB"

// loadDotEnv exports the variables of a .env file; a missing file is fine.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(err)
	}
}

func defaultsOf(cfg *Config) map[string]any {
	return map[string]any{
		"database_dsn":     cfg.DatabaseDSN,
		"omdb_api_key":     cfg.OMDbAPIKey,
		"omdb_base_url":    cfg.OMDbBaseURL,
		"http_timeout":     cfg.HTTPTimeout,
		"log_level":        cfg.LogLevel,
		"log_format":       cfg.LogFormat,
		"single_user":      cfg.SingleUser,
		"session_secret":   cfg.SessionSecret,
		"session_ttl":      cfg.SessionTTL,
		"session_file":     cfg.SessionFile,
		"output_dir":       cfg.OutputDir,
		"gallery_title":    cfg.GalleryTitle,
		"template_file":    cfg.TemplateFile,
		"s3_bucket":        cfg.S3Bucket,
		"s3_region":        cfg.S3Region,
		"s3_base_endpoint": cfg.S3BaseEndpoint,
		"s3_access_key":    cfg.S3AccessKey,
		"s3_secret_key":    cfg.S3SecretKey,
		"presign_ttl":      cfg.PresignTTL,
	}
}

// parseFile overlays cfg with the file named by -c/-config (if any) and
// with MOVIELIB_* environment variables. Panics on read or decode errors.
func parseFile(cfg *Config, args []string) {
	v := viper.New()
	for k, val := range defaultsOf(cfg) {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("omdb_api_key", envPrefix+"_OMDB_API_KEY", "OMDB_API_KEY"); err != nil {
		panic(err)
	}

	if path := flagx.ConfigFileFlag(args); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			panic(err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		panic(err)
	}
}
