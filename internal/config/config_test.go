package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seedsweep.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
[radarr]
url = "http://localhost:7878"
api_key = "radarr-key"

[sonarr]
url = "http://localhost:8989"
api_key = "sonarr-key"

[paths]
staging = "/downloads/_done"
`

func TestLoadMinimal(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:7878", cfg.Radarr.URL)
	assert.Equal(t, "/downloads/_done", cfg.Paths.Staging)

	// Defaults
	assert.Equal(t, 1.5, cfg.Thresholds.MinRatio)
	assert.Equal(t, 2, cfg.Thresholds.MinSeedDays)
	assert.Equal(t, int64(100<<20), cfg.Thresholds.MinVideoSize())
	assert.Equal(t, []string{"G", "PG"}, cfg.Thresholds.KidsMovieRatings)
	assert.Equal(t, []string{"TV-Y", "TV-Y7", "TV-G", "TV-PG"}, cfg.Thresholds.KidsSeriesRatings)
	assert.Equal(t, 22, cfg.Seedbox.Port)
	assert.Equal(t, "en-US", cfg.TMDB.Language)
	assert.Equal(t, "/tmp", cfg.LockDir)
}

func TestLoadFull(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
[rtorrent]
url = "https://seed.example.com/rutorrent/plugins/httprpc/action.php"
username = "seed"
password = "secret"

[seedbox]
host = "seed.example.com"
port = 40685
username = "seed"
password = "secret"
downloads = "/downloads/_ready"
downloads_fallback = "/downloads"

[thresholds]
min_ratio = 2.0
min_seed_days = 7
auto_import = true

[safety]
protected_folders = ["/_ready", "/.recycle"]
`))
	require.NoError(t, err)

	assert.Equal(t, 40685, cfg.Seedbox.Port)
	assert.Equal(t, 2.0, cfg.Thresholds.MinRatio)
	assert.Equal(t, 7, cfg.Thresholds.MinSeedDays)
	assert.True(t, cfg.Thresholds.AutoImport)
	assert.Equal(t, []string{"/_ready", "/.recycle"}, cfg.Safety.ProtectedFolders)
}

func TestLoadMissingRequired(t *testing.T) {
	_, err := Load(writeConfig(t, `
[radarr]
url = "http://localhost:7878"
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "sonarr.url")
	assert.Contains(t, err.Error(), "paths.staging")
}

func TestLoadEnvSubstitution(t *testing.T) {
	t.Setenv("SEEDSWEEP_TEST_KEY", "from-env")

	cfg, err := Load(writeConfig(t, `
[radarr]
url = "http://localhost:7878"
api_key = "${SEEDSWEEP_TEST_KEY}"

[sonarr]
url = "http://localhost:8989"
api_key = "${SEEDSWEEP_UNSET_KEY}"

[paths]
staging = "/downloads/_done"
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Radarr.APIKey)
	assert.Equal(t, "${SEEDSWEEP_UNSET_KEY}", cfg.Sonarr.APIKey, "unset vars are left verbatim")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
