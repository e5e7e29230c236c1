// Package basedir resolves the freedesktop.org XDG base directories that
// other packages scan for desktop-entry and icon-theme metadata. It
// implements only directory discovery; enumerating the actual theme or
// application directories beneath each base is left to callers.
package basedir

import (
	"os"
	"strings"
)

const (
	envDataHome = "XDG_DATA_HOME"
	envDataDirs = "XDG_DATA_DIRS"
	envHome     = "HOME"

	defaultDataHomeSuffix = "/.local/share/"
	defaultDataDirs       = "/usr/local/share/:/usr/share/"
)

// HomeDataDir returns the user's personal data directory: XDG_DATA_HOME if
// set, otherwise $HOME/.local/share/. It returns "" if neither is
// available.
func HomeDataDir() string {
	if v := os.Getenv(envDataHome); v != "" {
		return v
	}
	if home := os.Getenv(envHome); home != "" {
		return home + defaultDataHomeSuffix
	}
	return ""
}

// DataDirs returns every data directory to search, in priority order: the
// user's home data directory first (if available), followed by each
// directory named in XDG_DATA_DIRS (or the spec's default list, if unset).
// Empty path segments are skipped.
func DataDirs() []string {
	var dirs []string
	if home := HomeDataDir(); home != "" {
		dirs = append(dirs, home)
	}

	list := os.Getenv(envDataDirs)
	if list == "" {
		list = defaultDataDirs
	}
	for _, dir := range strings.Split(list, ":") {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
