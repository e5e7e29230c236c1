package desktopentry

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshuapare/xdgentry/list"
)

// watchEntry is one (path, mtime) pair recorded during a scan, used later
// to decide cache validity. mtime is 0 if the stat at record time failed.
type watchEntry struct {
	path  string
	mtime int64
}

// indexData holds the three top-level trees and watch list built by a live
// directory scan.
type indexData struct {
	apps  treeHandle[*App]
	assoc treeHandle[*MimeType]
	lists treeHandle[*MimeGroup]
	watch []watchEntry
}

// scanDirectory walks root, building a fresh indexData. Any per-file I/O
// error downgrades to a parse skip: the offending file is recorded in the
// watch list (with mtime 0 if even stat failed) and otherwise ignored; the
// scan continues.
func scanDirectory(root string) *indexData {
	data := &indexData{
		apps:  newLiveTree[*App](),
		assoc: newLiveTree[*MimeType](),
		lists: newLiveTree[*MimeGroup](),
	}
	scanDir(data, root, "")
	return data
}

func statMTime(path string) int64 {
	st, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return st.ModTime().Unix()
}

func scanDir(data *indexData, dir, prefix string) {
	data.watch = append(data.watch, watchEntry{path: dir, mtime: statMTime(dir)})

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		if entry.IsDir() {
			scanDir(data, path, prefix+name+"-")
			continue
		}
		if entry.Type()&os.ModeType != 0 {
			continue // not a regular file
		}

		switch {
		case strings.HasSuffix(name, ".desktop"):
			data.watch = append(data.watch, watchEntry{path: path, mtime: statMTime(path)})
			indexDesktopFile(data, path, prefix+name)
		case strings.HasSuffix(name, ".list"):
			data.watch = append(data.watch, watchEntry{path: path, mtime: statMTime(path)})
			indexListFile(data, path)
		}
	}
}

func indexDesktopFile(data *indexData, path, appID string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	app := data.apps.lookupOrInsert(appID, func() *App { return newApp(appID) })
	parseDesktopFile(f, data, app, appID)
}

// parseDesktopFile reads group/entry pairs out of r into app's group tree.
// A malformed group header (a "[" line with no matching "]") just leaves
// the current group unset and parsing continues at the next line; an entry
// line encountered before any group header ends parsing of the file,
// keeping whatever was read before it.
func parseDesktopFile(r io.Reader, data *indexData, app *App, appID string) {
	scanner := bufio.NewScanner(r)
	var group *AppGroup
	for scanner.Scan() {
		line := scanner.Text()
		if isIgnorableLine(line) {
			continue
		}
		if line[0] == '[' {
			group = nil
			if name, ok := groupName(line); ok {
				group = app.groups.lookupOrInsert(name, newAppGroup)
			}
			continue
		}
		if group == nil {
			return
		}
		readDesktopEntry(data, group, app, appID, line)
	}
}

func readDesktopEntry(data *indexData, group *AppGroup, app *App, appID, line string) {
	rawKey, value, ok := trimEquals(line)
	if !ok {
		return
	}
	key, localeTag, hasLocale := keyAndLocale(rawKey)
	entry := group.entries.lookupOrInsert(key, newAppGroupEntry)

	if hasLocale {
		lang, country, modifier := splitLocaleTag(localeTag)
		lang = normalizeLang(lang)
		canon := localeKey(lang, country, modifier)
		values := entry.localized.lookupOrInsert(canon, list.NewList[string])
		appendSemicolonValues(values, value)
		return
	}

	if key == "MimeType" {
		readMimeTypeValue(data, entry.Values, app, appID, value)
		return
	}
	appendSemicolonValues(entry.Values, value)
}

func appendSemicolonValues(l *list.List[string], value string) {
	for _, part := range splitSemicolonList(value) {
		l.Append(part)
	}
}

// readMimeTypeValue handles the "MimeType=" key specially: every distinct
// "type/subtype" pair inserts into assoc and records app under it.
// Repeated pairs within the same MimeType= line are de-duplicated so an
// App appears in assoc at most once per pair.
func readMimeTypeValue(data *indexData, values *list.List[string], app *App, appID, value string) {
	seen := make(map[string]bool)
	for _, part := range splitSemicolonList(value) {
		values.Append(part)
		if seen[part] {
			continue
		}
		seen[part] = true
		subType := mimeSubTypeAdd(data.assoc, part)
		if subType != nil {
			subType.Apps.Append(&MimeSubTypeValue{Name: appID, App: app})
		}
	}
}

// mimeSubTypeAdd inserts (creating ancestors as needed) the MimeSubType
// named by a "type/subtype" pair under types. It returns nil for a
// malformed pair.
func mimeSubTypeAdd(types treeHandle[*MimeType], pair string) *MimeSubType {
	mimeType, subType, ok := splitMimePair(pair)
	if !ok {
		return nil
	}
	mt := types.lookupOrInsert(mimeType, newMimeType)
	return mt.subTypes.lookupOrInsert(subType, newMimeSubType)
}

// mimeSubTypeSearch looks up the MimeSubType named by pair without
// inserting.
func mimeSubTypeSearch(types treeHandle[*MimeType], pair string) (*MimeSubType, bool) {
	mimeType, subType, ok := splitMimePair(pair)
	if !ok {
		return nil, false
	}
	mt, ok := types.Lookup(mimeType)
	if !ok {
		return nil, false
	}
	return mt.subTypes.Lookup(subType)
}

func indexListFile(data *indexData, path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	parseListFile(data, f)
}

// parseListFile reads ".list" file groups into data.lists, lazily creating
// App nodes in data.apps for any id it names that has no corresponding
// ".desktop" file.
func parseListFile(data *indexData, r io.Reader) {
	scanner := bufio.NewScanner(r)
	var group *MimeGroup
	for scanner.Scan() {
		line := scanner.Text()
		if isIgnorableLine(line) {
			continue
		}
		if line[0] == '[' {
			group = nil
			if name, ok := groupName(line); ok {
				group = data.lists.lookupOrInsert(name, newMimeGroup)
			}
			continue
		}
		if group == nil {
			return
		}
		readListEntry(data, group, line)
	}
}

func readListEntry(data *indexData, group *MimeGroup, line string) {
	key, value, ok := trimEquals(line)
	if !ok {
		return
	}
	subType := mimeSubTypeAdd(group.types, key)
	if subType == nil {
		return
	}
	for _, id := range splitSemicolonList(value) {
		app := data.apps.lookupOrInsert(id, func() *App { return newApp(id) })
		subType.Apps.Append(&MimeSubTypeValue{Name: id, App: app})
	}
}
