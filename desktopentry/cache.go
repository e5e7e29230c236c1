package desktopentry

import (
	"os"
	"strings"

	"github.com/joshuapare/xdgentry/list"
	"github.com/joshuapare/xdgentry/persist"
)

// cacheVersion is the only version this package writes or accepts. A
// version mismatch means the cache is unusable: the caller falls back to
// a live scan.
const cacheVersion = 1

// cacheFileName is the fixed name of the cache file within a scanned
// "applications" directory.
const cacheFileName = "applications.cache"

func identity(s string) string { return s }

// writeCache serializes data to path: version, watcher list, apps tree,
// assoc tree, lists tree. assoc/lists serialize App references by app id
// rather than by address, which is what makes the resulting file
// position-independent.
func writeCache(path string, data *indexData) (retErr error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); retErr == nil {
			retErr = cerr
		}
	}()

	wr := persist.NewWriter(f)
	wr.PutUvarint(cacheVersion)
	wr.PutUvarint(uint64(len(data.watch)))
	for _, w := range data.watch {
		wr.PutInt64(w.mtime)
		wr.PutString(w.path)
	}

	persist.DumpTree(wr, data.apps.live, identity, encodeApp)
	persist.DumpTree(wr, data.assoc.live, identity, encodeMimeType)
	persist.DumpTree(wr, data.lists.live, identity, encodeMimeGroup)

	return wr.Flush()
}

func encodeApp(wr *persist.Writer, app *App) {
	persist.DumpTree(wr, app.groups.live, identity, encodeAppGroup)
}

func encodeAppGroup(wr *persist.Writer, group *AppGroup) {
	persist.DumpTree(wr, group.entries.live, identity, encodeAppGroupEntry)
}

func encodeAppGroupEntry(wr *persist.Writer, entry *AppGroupEntry) {
	writeStringList(wr, entry.Values)
	persist.DumpTree(wr, entry.localized.live, identity, writeStringList)
}

func writeStringList(wr *persist.Writer, l *list.List[string]) {
	var items []string
	for v := range l.All() {
		items = append(items, v)
	}
	wr.PutUvarint(uint64(len(items)))
	for _, v := range items {
		wr.PutString(v)
	}
}

func encodeMimeType(wr *persist.Writer, mt *MimeType) {
	persist.DumpTree(wr, mt.subTypes.live, identity, encodeMimeSubType)
}

func encodeMimeSubType(wr *persist.Writer, st *MimeSubType) {
	var names []string
	for v := range st.Apps.All() {
		names = append(names, v.Name)
	}
	wr.PutUvarint(uint64(len(names)))
	for _, n := range names {
		wr.PutString(n)
	}
}

func encodeMimeGroup(wr *persist.Writer, mg *MimeGroup) {
	persist.DumpTree(wr, mg.types.live, identity, encodeMimeType)
}

// decodeCache reconstructs an indexData from a previously mapped cache
// region: read the version word, the watcher list, then the three trees
// in order, with assoc/lists resolving their App references against the
// already-mapped apps tree.
func decodeCache(data []byte) (*indexData, error) {
	r := persist.NewReader(data)

	version, err := r.Uvarint()
	if err != nil {
		return nil, err
	}
	if version != cacheVersion {
		return nil, ErrCacheVersion
	}

	watchCount, err := r.Uvarint()
	if err != nil {
		return nil, err
	}
	watch := make([]watchEntry, 0, watchCount)
	for i := uint64(0); i < watchCount; i++ {
		mtime, err := r.Int64()
		if err != nil {
			return nil, err
		}
		path, err := r.String()
		if err != nil {
			return nil, err
		}
		watch = append(watch, watchEntry{path: path, mtime: mtime})
	}

	appsTree, err := persist.MapTree[*App](r, strings.Compare, decodeApp)
	if err != nil {
		return nil, err
	}
	appsTree.Traverse(func(key string, v *App) bool {
		v.ID = key
		return true
	})
	appsHandle := mappedTreeHandle(appsTree)

	assocTree, err := persist.MapTree[*MimeType](r, strings.Compare, decodeMimeType(appsHandle))
	if err != nil {
		return nil, err
	}

	listsTree, err := persist.MapTree[*MimeGroup](r, strings.Compare, decodeMimeGroup(appsHandle))
	if err != nil {
		return nil, err
	}

	return &indexData{
		apps:  appsHandle,
		assoc: mappedTreeHandle(assocTree),
		lists: mappedTreeHandle(listsTree),
		watch: watch,
	}, nil
}

func decodeApp(r *persist.Reader) (*App, error) {
	groups, err := persist.MapTree[*AppGroup](r, strings.Compare, decodeAppGroup)
	if err != nil {
		return nil, err
	}
	return &App{groups: mappedTreeHandle(groups)}, nil
}

func decodeAppGroup(r *persist.Reader) (*AppGroup, error) {
	entries, err := persist.MapTree[*AppGroupEntry](r, strings.Compare, decodeAppGroupEntry)
	if err != nil {
		return nil, err
	}
	return &AppGroup{entries: mappedTreeHandle(entries)}, nil
}

func decodeAppGroupEntry(r *persist.Reader) (*AppGroupEntry, error) {
	values, err := readStringList(r)
	if err != nil {
		return nil, err
	}
	localized, err := persist.MapTree[*list.List[string]](r, strings.Compare, readStringList)
	if err != nil {
		return nil, err
	}
	return &AppGroupEntry{Values: values, localized: mappedTreeHandle(localized)}, nil
}

func readStringList(r *persist.Reader) (*list.List[string], error) {
	n, err := r.Uvarint()
	if err != nil {
		return nil, err
	}
	l := list.NewList[string]()
	for i := uint64(0); i < n; i++ {
		s, err := r.String()
		if err != nil {
			return nil, err
		}
		l.Append(s)
	}
	return l, nil
}

// decodeMimeSubType resolves each app-id reference it reads against apps,
// the already-mapped apps tree.
func decodeMimeSubType(apps treeHandle[*App]) func(*persist.Reader) (*MimeSubType, error) {
	return func(r *persist.Reader) (*MimeSubType, error) {
		n, err := r.Uvarint()
		if err != nil {
			return nil, err
		}
		st := newMimeSubType()
		for i := uint64(0); i < n; i++ {
			name, err := r.String()
			if err != nil {
				return nil, err
			}
			app, _ := apps.Lookup(name)
			st.Apps.Append(&MimeSubTypeValue{Name: name, App: app})
		}
		return st, nil
	}
}

func decodeMimeType(apps treeHandle[*App]) func(*persist.Reader) (*MimeType, error) {
	return func(r *persist.Reader) (*MimeType, error) {
		subTypes, err := persist.MapTree[*MimeSubType](r, strings.Compare, decodeMimeSubType(apps))
		if err != nil {
			return nil, err
		}
		return &MimeType{subTypes: mappedTreeHandle(subTypes)}, nil
	}
}

func decodeMimeGroup(apps treeHandle[*App]) func(*persist.Reader) (*MimeGroup, error) {
	return func(r *persist.Reader) (*MimeGroup, error) {
		types, err := persist.MapTree[*MimeType](r, strings.Compare, decodeMimeType(apps))
		if err != nil {
			return nil, err
		}
		return &MimeGroup{types: mappedTreeHandle(types)}, nil
	}
}
