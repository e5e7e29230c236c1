package main

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/xdgentry/basedir"
	"github.com/joshuapare/xdgentry/desktopentry"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [data-dir ...]",
		Short: "Show cache-backed vs. live-scanned status for each data directory",
		Long: `The stats command reports, for each data directory's "applications"
subdirectory, whether it is currently served from its cache file or from
a live scan, whether that state is still valid, and the cache file's size
on disk (if any).

Example:
  xdgcache stats
  xdgcache stats /usr/share`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
}

type folderStats struct {
	Dir       string `json:"dir"`
	Cached    bool   `json:"cached"`
	Valid     bool   `json:"valid"`
	CacheSize int64  `json:"cache_size_bytes"`
}

func runStats(args []string) error {
	dataDirs := args
	if len(dataDirs) == 0 {
		dataDirs = basedir.DataDirs()
	}

	var all []folderStats
	for _, dir := range dataDirs {
		appDir := filepath.Join(dir, "applications")
		folder := desktopentry.Load(appDir)

		size := int64(0)
		if st, err := os.Stat(filepath.Join(appDir, "applications.cache")); err == nil {
			size = st.Size()
		}

		all = append(all, folderStats{
			Dir:       appDir,
			Cached:    folder.Cached(),
			Valid:     folder.Valid(),
			CacheSize: size,
		})
		_ = folder.Close()
	}

	if jsonOut {
		return printJSON(all)
	}

	for _, s := range all {
		mode := "live"
		if s.Cached {
			mode = "cached"
		}
		printInfo("%s: %s, valid=%v, cache=%s\n", s.Dir, mode, s.Valid, humanize.Bytes(uint64(s.CacheSize)))
	}
	return nil
}
