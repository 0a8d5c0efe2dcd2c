package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/seedsweep/internal/arr"
	"github.com/vmunix/seedsweep/internal/autoimport"
	"github.com/vmunix/seedsweep/internal/config"
	"github.com/vmunix/seedsweep/internal/ledger"
	"github.com/vmunix/seedsweep/internal/notify"
	"github.com/vmunix/seedsweep/internal/purge"
	"github.com/vmunix/seedsweep/internal/rtorrent"
	"github.com/vmunix/seedsweep/internal/runlock"
	"github.com/vmunix/seedsweep/internal/seedbox"
	"github.com/vmunix/seedsweep/internal/tmdb"
)

var version = "dev"

var (
	cfgPath string
	dryRun  bool
	execute bool
	verbose bool

	skipAutoImport bool
	skipTorrents   bool
	skipRemote     bool
	skipLocal      bool
)

var rootCmd = &cobra.Command{
	Use:   "seedsweep",
	Short: "Multi-tier seedbox and staging cleanup",
	Long: `seedsweep - multi-tier seedbox and staging cleanup

Reconciles the torrent client, the remote download area and the local
staging directory against the Radarr/Sonarr libraries, deleting only
content with proof of import. Unmanaged staging videos are registered
with the managers first, routed to kids or adult root folders by age
certification.

Run with --dry-run to see every decision without deleting anything.`,
	SilenceUsage: true,
	RunE:         run,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&cfgPath, "config", "seedsweep.toml", "Config file path")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log every decision without deleting")
	rootCmd.Flags().BoolVar(&execute, "execute", false, "Actually delete files and torrents")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.Flags().BoolVar(&skipAutoImport, "skip-auto-import", false, "Skip phase 0 (auto-import)")
	rootCmd.Flags().BoolVar(&skipTorrents, "skip-torrents", false, "Skip phase 1 (torrent purge)")
	rootCmd.Flags().BoolVar(&skipRemote, "skip-remote", false, "Skip phase 2 (remote purge)")
	rootCmd.Flags().BoolVar(&skipLocal, "skip-local", false, "Skip phase 3 (local purge)")

	rootCmd.MarkFlagsMutuallyExclusive("dry-run", "execute")
	rootCmd.MarkFlagsOneRequired("dry-run", "execute")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("seedsweep {{.Version}}\n")
}

func run(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	radarr := arr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey)
	sonarr := arr.NewClient(cfg.Sonarr.URL, cfg.Sonarr.APIKey)

	torrents, err := rtorrent.NewClient(cfg.RTorrent.URL, cfg.RTorrent.Username, cfg.RTorrent.Password)
	if err != nil {
		return fmt.Errorf("torrent client: %w", err)
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.Ntfy.Enabled && cfg.Ntfy.URL != "" {
		notifier = notify.NewNtfy(cfg.Ntfy.URL, cfg.Ntfy.Priority)
	}

	if !cfg.Thresholds.AutoImport && !skipAutoImport {
		log.Info("auto-import disabled in configuration")
		skipAutoImport = true
	}
	if cfg.TMDB.APIKey == "" && !skipAutoImport {
		log.Warn("no TMDB api key configured, auto-import disabled")
		skipAutoImport = true
	}

	importer := autoimport.New(radarr, sonarr,
		tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.Language),
		autoimport.Config{
			StagingDir:        cfg.Paths.Staging,
			MoviesRoot:        cfg.Paths.Movies,
			SeriesRoot:        cfg.Paths.Series,
			KidsMoviesRoot:    cfg.Paths.KidsMovies,
			KidsSeriesRoot:    cfg.Paths.KidsSeries,
			KidsMovieRatings:  cfg.Thresholds.KidsMovieRatings,
			KidsSeriesRatings: cfg.Thresholds.KidsSeriesRatings,
			MinVideoSize:      cfg.Thresholds.MinVideoSize(),
			DryRun:            dryRun,
		}, log)

	deps := purge.Deps{
		Lock: lockDir(cfg.LockDir),
		Ledger: func(ctx context.Context) (*ledger.Ledger, error) {
			return ledger.Build(ctx, radarr, sonarr, cfg.Paths.Staging)
		},
		Importer: importer,
		Torrents: torrents,
		Remote: func(ctx context.Context) (purge.RemoteStore, func(), error) {
			sb := cfg.Seedbox
			client, err := seedbox.Dial(sb.Host, sb.Port, sb.Username, sb.Password)
			if err != nil {
				return nil, nil, err
			}
			return client, func() { _ = client.Close() }, nil
		},
		Movies:   radarr,
		Series:   sonarr,
		Notifier: notifier,
	}

	orch := purge.New(deps, purge.Config{
		DryRun:          dryRun,
		SkipAutoImport:  skipAutoImport,
		SkipTorrents:    skipTorrents,
		SkipRemote:      skipRemote,
		SkipLocal:       skipLocal,
		MinRatio:        cfg.Thresholds.MinRatio,
		MinSeedDays:     cfg.Thresholds.MinSeedDays,
		MinVideoSize:    cfg.Thresholds.MinVideoSize(),
		StagingDir:      cfg.Paths.Staging,
		RemotePrimary:   cfg.Seedbox.Downloads,
		RemoteFallback:  cfg.Seedbox.DownloadsFallback,
		Protected:       cfg.Safety.ProtectedFolders,
		NotifyOnSuccess: cfg.Ntfy.SendOnSuccess,
	}, log)

	summary, err := orch.Run(cmd.Context())
	if err != nil {
		return err
	}
	if len(summary.FailedPhases) > 0 {
		return fmt.Errorf("phases failed: %s", strings.Join(summary.FailedPhases, ", "))
	}
	return nil
}

// lockDir adapts the flock-based run lock to the orchestrator.
type lockDir string

func (d lockDir) Acquire() (func(), error) {
	lock, err := runlock.Acquire(string(d), "seedsweep")
	if err != nil {
		return nil, err
	}
	return lock.Release, nil
}
