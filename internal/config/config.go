// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Radarr     ArrConfig        `toml:"radarr"`
	Sonarr     ArrConfig        `toml:"sonarr"`
	RTorrent   RTorrentConfig   `toml:"rtorrent"`
	Seedbox    SeedboxConfig    `toml:"seedbox"`
	TMDB       TMDBConfig       `toml:"tmdb"`
	Paths      PathsConfig      `toml:"paths"`
	Thresholds ThresholdsConfig `toml:"thresholds"`
	Safety     SafetyConfig     `toml:"safety"`
	Ntfy       NtfyConfig       `toml:"ntfy"`
	LockDir    string           `toml:"lock_dir"`
}

// ArrConfig points at one library manager instance.
type ArrConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

// RTorrentConfig points at the torrent client's XML-RPC mount.
type RTorrentConfig struct {
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// SeedboxConfig holds SSH access and the remote directory layout.
type SeedboxConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`

	// Downloads is the completed-only staging area, cleaned first.
	// DownloadsFallback is the broader download area; it is skipped when it
	// is a filesystem ancestor of Downloads.
	Downloads         string `toml:"downloads"`
	DownloadsFallback string `toml:"downloads_fallback"`
}

type TMDBConfig struct {
	APIKey   string `toml:"api_key"`
	Language string `toml:"language"`
}

// PathsConfig names the local staging directory and the library root folders
// auto-import routes into.
type PathsConfig struct {
	Staging    string `toml:"staging"`
	Movies     string `toml:"movies"`
	Series     string `toml:"series"`
	KidsMovies string `toml:"kids_movies"`
	KidsSeries string `toml:"kids_series"`
}

type ThresholdsConfig struct {
	MinRatio          float64  `toml:"min_ratio"`
	MinSeedDays       int      `toml:"min_seed_days"`
	MinVideoSizeMB    int64    `toml:"min_video_size_mb"`
	AutoImport        bool     `toml:"auto_import"`
	KidsMovieRatings  []string `toml:"kids_movie_ratings"`
	KidsSeriesRatings []string `toml:"kids_series_ratings"`
}

type SafetyConfig struct {
	// ProtectedFolders are never deleted and files under them never touched.
	ProtectedFolders []string `toml:"protected_folders"`
}

type NtfyConfig struct {
	Enabled       bool   `toml:"enabled"`
	URL           string `toml:"url"`
	Priority      string `toml:"priority"`
	SendOnSuccess bool   `toml:"send_on_success"`
}

// MinVideoSize returns the sample-size floor in bytes.
func (t ThresholdsConfig) MinVideoSize() int64 {
	return t.MinVideoSizeMB << 20
}

// ErrInvalid wraps all validation failures.
var ErrInvalid = errors.New("invalid configuration")

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Thresholds.MinRatio == 0 {
		cfg.Thresholds.MinRatio = 1.5
	}
	if cfg.Thresholds.MinSeedDays == 0 {
		cfg.Thresholds.MinSeedDays = 2
	}
	if cfg.Thresholds.MinVideoSizeMB == 0 {
		cfg.Thresholds.MinVideoSizeMB = 100
	}
	if cfg.Thresholds.KidsMovieRatings == nil {
		cfg.Thresholds.KidsMovieRatings = []string{"G", "PG"}
	}
	if cfg.Thresholds.KidsSeriesRatings == nil {
		cfg.Thresholds.KidsSeriesRatings = []string{"TV-Y", "TV-Y7", "TV-G", "TV-PG"}
	}
	if cfg.Seedbox.Port == 0 {
		cfg.Seedbox.Port = 22
	}
	if cfg.TMDB.Language == "" {
		cfg.TMDB.Language = "en-US"
	}
	if cfg.Ntfy.Priority == "" {
		cfg.Ntfy.Priority = "default"
	}
	if cfg.LockDir == "" {
		cfg.LockDir = "/tmp"
	}
}

func (cfg *Config) validate() error {
	var missing []string
	check := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	check("radarr.url", cfg.Radarr.URL)
	check("radarr.api_key", cfg.Radarr.APIKey)
	check("sonarr.url", cfg.Sonarr.URL)
	check("sonarr.api_key", cfg.Sonarr.APIKey)
	check("paths.staging", cfg.Paths.Staging)

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrInvalid, missing)
	}
	if cfg.Thresholds.MinRatio < 0 {
		return fmt.Errorf("%w: thresholds.min_ratio must not be negative", ErrInvalid)
	}
	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
