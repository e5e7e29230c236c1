package desktopentry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func appIDs(t *testing.T, f *Folder, mime string) []string {
	t.Helper()
	var ids []string
	for v := range f.KnownApps(mime).All() {
		ids = append(ids, v.Name)
	}
	return ids
}

// TestRoundTripCache indexes two ".desktop" files live, writes the cache
// file, then reloads through the mapped path; query results must match.
func TestRoundTripCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app1.desktop", "[Desktop Entry]\nMimeType=text/plain;text/html;\nName=One\n")
	writeFile(t, dir, "app2.desktop", "[Desktop Entry]\nMimeType=text/plain;\nName=Two\n")

	live := Load(dir)
	require.False(t, live.Cached())
	require.ElementsMatch(t, []string{"app1.desktop", "app2.desktop"}, appIDs(t, live, "text/plain"))
	require.ElementsMatch(t, []string{"app1.desktop"}, appIDs(t, live, "text/html"))
	require.Empty(t, appIDs(t, live, "image/png"))

	_, err := Rebuild(dir)
	require.NoError(t, err)
	require.NoError(t, live.Close())

	cached := Load(dir)
	defer cached.Close()
	require.True(t, cached.Cached())

	require.ElementsMatch(t, []string{"app1.desktop", "app2.desktop"}, appIDs(t, cached, "text/plain"))
	require.ElementsMatch(t, []string{"app1.desktop"}, appIDs(t, cached, "text/html"))
	require.Empty(t, appIDs(t, cached, "image/png"))
}

// TestListComposition: a ".list" association naming an app with no
// corresponding ".desktop" file still yields a usable, lazily-created App
// with an empty group tree.
func TestListComposition(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app1.desktop", "[Desktop Entry]\nMimeType=text/plain;text/html;\nName=One\n")
	writeFile(t, dir, "app2.desktop", "[Desktop Entry]\nMimeType=text/plain;\nName=Two\n")
	writeFile(t, dir, "mimeapps.list", "[Added Associations]\ntext/plain=app3.desktop;\n")

	f := Load(dir)
	defer f.Close()

	var got []*MimeSubTypeValue
	for v := range f.AddedApps("text/plain").All() {
		got = append(got, v)
	}
	require.Len(t, got, 1)
	require.Equal(t, "app3.desktop", got[0].Name)
	require.NotNil(t, got[0].App)

	_, ok := Group(got[0].App, "Desktop Entry")
	require.False(t, ok, "app3.desktop has no backing file, so it has no groups")
}

// TestLocalizedLookup exercises the locale fallback chain end to end.
func TestLocalizedLookup(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app1.desktop", "[Desktop Entry]\n"+
		"Name=One\n"+
		"Name[ru]=Один\n"+
		"Name[ru_RU@ekb]=Номер Один\n")

	f := Load(dir)
	defer f.Close()

	app, ok := f.App("app1.desktop")
	require.True(t, ok)
	group, ok := Group(app, "Desktop Entry")
	require.True(t, ok)
	entry, ok := Entry(group, "Name")
	require.True(t, ok)

	require.Equal(t, []string{"Номер Один"}, LocalizedEntry(entry, "ru", "RU", "ekb"))
	require.Equal(t, []string{"Один"}, LocalizedEntry(entry, "ru", "RU", "unknown"))
	require.Equal(t, []string{"One"}, LocalizedEntry(entry, "fr", "FR", ""))
}

// TestCacheValidityDetection: touching a watched file's mtime after the
// cache was written must flip the folder to invalid.
func TestCacheValidityDetection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app1.desktop", "[Desktop Entry]\nName=One\n")

	folder, err := Rebuild(dir)
	require.NoError(t, err)
	defer folder.Close()
	require.True(t, folder.Valid())

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "app1.desktop"), future, future))
	require.False(t, folder.Valid())
}

// TestAppIDPrefixForNestedDesktopFiles exercises the dash-joined directory
// prefix rule for ".desktop" files found below the folder root.
func TestAppIDPrefixForNestedDesktopFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "vendor"), 0o755))
	writeFile(t, filepath.Join(dir, "vendor"), "tool.desktop", "[Desktop Entry]\nName=Tool\n")

	f := Load(dir)
	defer f.Close()

	_, ok := f.App("vendor-tool.desktop")
	require.True(t, ok)
}

// TestMalformedMimeTypeIgnored covers a "type" with no "/subtype".
func TestMalformedMimeTypeIgnored(t *testing.T) {
	mt, subType, ok := splitMimePair("noslash")
	require.False(t, ok)
	require.Empty(t, mt)
	require.Empty(t, subType)
}

// TestOrphanEntryEndsParsing: an entry line before any "[Section]" header
// ends parsing of that file; anything already parsed before the orphan is
// kept.
func TestOrphanEntryEndsParsing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app1.desktop", "Orphan=before any group\n[Desktop Entry]\nName=One\n")

	f := Load(dir)
	defer f.Close()

	app, ok := f.App("app1.desktop")
	require.True(t, ok)
	_, ok = Group(app, "Desktop Entry")
	require.False(t, ok, "parsing stops at the first orphan entry, before any group is ever opened")
}

// TestParsingStopsAfterMalformedGroupHeader covers a malformed group header
// ("[" with no matching "]") followed by an entry line: the header leaves
// the current group unset, and the entry line right after it is then an
// orphan that ends parsing: entries collected before the malformed header
// survive, but nothing after it (including a later well-formed group) is
// parsed.
func TestParsingStopsAfterMalformedGroupHeader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app1.desktop",
		"[Desktop Entry]\nName=One\n[Unclosed\nName=Two\n[Second Section]\nName=Three\n")

	f := Load(dir)
	defer f.Close()

	app, ok := f.App("app1.desktop")
	require.True(t, ok)

	group, ok := Group(app, "Desktop Entry")
	require.True(t, ok)
	entry, ok := Entry(group, "Name")
	require.True(t, ok)
	require.Equal(t, []string{"One"}, LocalizedEntry(entry, "fr", "", ""))

	_, ok = Group(app, "Second Section")
	require.False(t, ok, "the orphan line ends parsing before the second section header is seen")
}
