package main

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joshuapare/xdgentry/basedir"
	"github.com/joshuapare/xdgentry/desktopentry"
)

func init() {
	rootCmd.AddCommand(newRebuildCmd())
}

func newRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild [data-dir ...]",
		Short: "Force a live scan and rewrite each directory's applications.cache",
		Long: `The rebuild command performs a live directory scan and unconditionally
rewrites applications.cache for each given data directory's "applications"
subdirectory. With no arguments it rebuilds every directory named by
XDG_DATA_HOME and XDG_DATA_DIRS.

Example:
  xdgcache rebuild
  xdgcache rebuild /usr/share /usr/local/share`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRebuild(args)
		},
	}
}

func runRebuild(args []string) error {
	dataDirs := args
	if len(dataDirs) == 0 {
		dataDirs = basedir.DataDirs()
	}

	var firstErr error
	for _, dir := range dataDirs {
		appDir := filepath.Join(dir, "applications")
		printVerbose("Rebuilding %s\n", appDir)

		folder, err := desktopentry.Rebuild(appDir)
		if err != nil {
			printInfo("xdgcache: %s: %v\n", appDir, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		_ = folder.Close()
		printInfo("%s: rebuilt\n", appDir)
	}

	if firstErr != nil {
		os.Exit(exitCode(firstErr))
	}
	return nil
}

// exitCode extracts the OS-level exit status from err, if it wraps one,
// defaulting to 1 ("Exit codes (rebuild tool): 0 on success; otherwise
// the OS error code of the first failing operation").
func exitCode(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return 1
}
