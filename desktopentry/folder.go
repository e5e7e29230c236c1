package desktopentry

import (
	"os"
	"path/filepath"

	"github.com/joshuapare/xdgentry/cachefile"
	"github.com/joshuapare/xdgentry/list"
)

// Folder indexes the ".desktop" and ".list" files beneath one data
// directory's "applications" subdirectory. It is either in data mode
// (scanned live, every node heap-owned) or cache mode (mapped from
// applications.cache: key and string bytes are views into the mapping,
// while tree nodes and value records are rebuilt on the heap at load),
// never both.
type Folder struct {
	root      string
	cachePath string
	data      *indexData
	mapping   *cachefile.File
}

// Root returns the directory this Folder indexes.
func (f *Folder) Root() string { return f.root }

// Cached reports whether this Folder was loaded from a mapped cache file
// rather than a live scan.
func (f *Folder) Cached() bool { return f.mapping != nil }

// Load opens root (an "applications" directory), preferring its cache
// file if one exists and is still valid, falling back to a live scan
// otherwise. Load never fails on a missing or unusable cache: cache I/O
// errors are non-fatal and simply cause fallback to live indexing.
func Load(root string) *Folder {
	cachePath := filepath.Join(root, cacheFileName)

	if mapping, data, err := tryLoadCache(cachePath); err == nil {
		return &Folder{root: root, cachePath: cachePath, data: data, mapping: mapping}
	}

	return &Folder{root: root, cachePath: cachePath, data: scanDirectory(root)}
}

func tryLoadCache(path string) (*cachefile.File, *indexData, error) {
	mapping, err := cachefile.Open(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := decodeCache(mapping.Bytes())
	if err != nil {
		_ = mapping.Close()
		return nil, nil, err
	}
	if !watchListValid(data.watch) {
		_ = mapping.Close()
		return nil, nil, ErrCacheStale
	}
	return mapping, data, nil
}

// watchListValid re-stats every recorded path: the cache is invalid if
// any path's mtime changed, or if a path's recorded-absent
// /recorded-present status flipped.
func watchListValid(watch []watchEntry) bool {
	for _, w := range watch {
		st, err := os.Stat(w.path)
		if err == nil {
			if st.ModTime().Unix() != w.mtime {
				return false
			}
		} else if w.mtime != 0 {
			return false
		}
	}
	return true
}

// Valid re-stats this Folder's watched paths and reports whether its
// current index (live or cached) is still up to date.
func (f *Folder) Valid() bool {
	if f.data == nil {
		return false
	}
	return watchListValid(f.data.watch)
}

// Rebuild performs a live scan of root and unconditionally rewrites the
// cache file. This is the entry point behind "xdgcache rebuild".
func Rebuild(root string) (*Folder, error) {
	cachePath := filepath.Join(root, cacheFileName)
	data := scanDirectory(root)

	if err := writeCache(cachePath, data); err != nil {
		return &Folder{root: root, cachePath: cachePath, data: data}, err
	}
	return &Folder{root: root, cachePath: cachePath, data: data}, nil
}

// Close releases the Folder's memory mapping and/or file descriptor, if
// it holds one. It is a no-op for a data-mode Folder.
func (f *Folder) Close() error {
	if f.mapping == nil {
		return nil
	}
	err := f.mapping.Close()
	f.mapping = nil
	return err
}

var emptyAppList = list.NewList[*MimeSubTypeValue]()

// Apps returns this folder's ".list" declarations under the named section
// for mime, or an empty list. AddedApps, DefaultApps and RemovedApps are
// thin wrappers over it for the standard section names.
func (f *Folder) Apps(section, mime string) *list.List[*MimeSubTypeValue] {
	group, ok := f.data.lists.Lookup(section)
	if !ok {
		return emptyAppList
	}
	subType, ok := mimeSubTypeSearch(group.types, mime)
	if !ok {
		return emptyAppList
	}
	return subType.Apps
}

// AddedApps returns this folder's "Added Associations" declarations for
// mime, or an empty list.
func (f *Folder) AddedApps(mime string) *list.List[*MimeSubTypeValue] {
	return f.Apps("Added Associations", mime)
}

// DefaultApps returns this folder's "Default Applications" declarations
// for mime, or an empty list.
func (f *Folder) DefaultApps(mime string) *list.List[*MimeSubTypeValue] {
	return f.Apps("Default Applications", mime)
}

// RemovedApps returns this folder's "Removed Associations" declarations
// for mime, or an empty list.
func (f *Folder) RemovedApps(mime string) *list.List[*MimeSubTypeValue] {
	return f.Apps("Removed Associations", mime)
}

// KnownApps returns every app that declared mime via a "MimeType=" line in
// a ".desktop" file, or an empty list.
func (f *Folder) KnownApps(mime string) *list.List[*MimeSubTypeValue] {
	subType, ok := mimeSubTypeSearch(f.data.assoc, mime)
	if !ok {
		return emptyAppList
	}
	return subType.Apps
}

// App looks up a parsed app by id.
func (f *Folder) App(id string) (*App, bool) {
	return f.data.apps.Lookup(id)
}

// Group returns the named group of app.
func Group(app *App, name string) (*AppGroup, bool) {
	return app.groups.Lookup(name)
}

// Entry returns the named entry of group.
func Entry(group *AppGroup, key string) (*AppGroupEntry, bool) {
	return group.entries.Lookup(key)
}

// LocalizedEntry resolves entry's value for the given locale, trying, in
// order, lang_COUNTRY@modifier, lang_COUNTRY, lang@modifier, lang, then
// falling back to the default (unlocalized) values.
func LocalizedEntry(entry *AppGroupEntry, lang, country, modifier string) []string {
	for _, key := range localeFallbackChain(lang, country, modifier) {
		if values, ok := entry.localized.Lookup(key); ok {
			return materialize(values)
		}
	}
	return materialize(entry.Values)
}

func materialize(l *list.List[string]) []string {
	var out []string
	for v := range l.All() {
		out = append(out, v)
	}
	return out
}
