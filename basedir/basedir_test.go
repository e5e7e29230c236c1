package basedir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHomeDataDirPrefersDataHome(t *testing.T) {
	t.Setenv(envDataHome, "/custom/data")
	t.Setenv(envHome, "/home/whoever")
	assert.Equal(t, "/custom/data", HomeDataDir())
}

func TestHomeDataDirFallsBackToHome(t *testing.T) {
	t.Setenv(envDataHome, "")
	t.Setenv(envHome, "/home/whoever")
	assert.Equal(t, "/home/whoever/.local/share/", HomeDataDir())
}

func TestHomeDataDirEmptyWhenUnset(t *testing.T) {
	t.Setenv(envDataHome, "")
	t.Setenv(envHome, "")
	assert.Equal(t, "", HomeDataDir())
}

func TestDataDirsUsesDefaultsWhenUnset(t *testing.T) {
	t.Setenv(envDataHome, "")
	t.Setenv(envHome, "")
	t.Setenv(envDataDirs, "")
	assert.Equal(t, []string{"/usr/local/share/", "/usr/share/"}, DataDirs())
}

func TestDataDirsOrdersHomeFirst(t *testing.T) {
	t.Setenv(envDataHome, "/custom/data")
	t.Setenv(envDataDirs, "/a:/b")
	assert.Equal(t, []string{"/custom/data", "/a", "/b"}, DataDirs())
}

func TestDataDirsSkipsEmptySegments(t *testing.T) {
	t.Setenv(envDataHome, "")
	t.Setenv(envHome, "")
	t.Setenv(envDataDirs, "/a::/b:")
	assert.Equal(t, []string{"/a", "/b"}, DataDirs())
}
