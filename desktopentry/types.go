// Package desktopentry implements the desktop-entry indexing engine: it
// scans a directory of ".desktop" and ".list" files, builds three
// interrelated AVL indices (apps, assoc, lists), and can serialize or
// reload that index through the persist package.
package desktopentry

import (
	"strings"

	"github.com/joshuapare/xdgentry/avltree"
	"github.com/joshuapare/xdgentry/list"
	"github.com/joshuapare/xdgentry/persist"
)

// treeHandle is a dual-mode ordered map: in data mode it owns a live,
// heap-allocated avltree.Tree; in cache mode it wraps a persist.MappedTree
// reconstructed from a mapped cache file. Exactly one of the two is set.
// This lets App, AppGroup and the mime types below share one set of field
// types regardless of which mode produced them: the two modes never mix
// within one folder, but the accessor code is written once.
type treeHandle[V any] struct {
	live   *avltree.Tree[string, V]
	mapped *persist.MappedTree[V]
}

func newLiveTree[V any]() treeHandle[V] {
	return treeHandle[V]{live: avltree.New[string, V](strings.Compare)}
}

func mappedTreeHandle[V any](t *persist.MappedTree[V]) treeHandle[V] {
	return treeHandle[V]{mapped: t}
}

// lookupOrInsert is only valid in data mode; callers never call it on a
// cache-mode folder, since cache-mode trees are read-only by construction.
func (h treeHandle[V]) lookupOrInsert(key string, newValue func() V) V {
	n, _ := h.live.LookupOrInsert(key, newValue)
	return n.Value()
}

// Lookup returns the value stored under key, if any, in either mode.
func (h treeHandle[V]) Lookup(key string) (V, bool) {
	if h.live != nil {
		n, ok := h.live.Lookup(key)
		if !ok {
			var zero V
			return zero, false
		}
		return n.Value(), true
	}
	if h.mapped != nil {
		return h.mapped.Lookup(key)
	}
	var zero V
	return zero, false
}

// Traverse walks every (key, value) pair in key order.
func (h treeHandle[V]) Traverse(visit func(key string, value V) bool) {
	if h.live != nil {
		h.live.Traverse(func(n *avltree.Node[string, V]) bool { return visit(n.Key(), n.Value()) })
		return
	}
	if h.mapped != nil {
		h.mapped.Traverse(visit)
	}
}

// AppGroupEntry is one Key=Value line of a ".desktop" file group: an
// ordered list of default values plus a locale-tag -> values map for any
// "Key[locale]=Value" variants of the same key.
type AppGroupEntry struct {
	Values    *list.List[string]
	localized treeHandle[*list.List[string]]
}

func newAppGroupEntry() *AppGroupEntry {
	return &AppGroupEntry{Values: list.NewList[string](), localized: newLiveTree[*list.List[string]]()}
}

// AppGroup is one "[Section]" of a ".desktop" file.
type AppGroup struct {
	entries treeHandle[*AppGroupEntry]
}

func newAppGroup() *AppGroup {
	return &AppGroup{entries: newLiveTree[*AppGroupEntry]()}
}

// App is one parsed ".desktop" file, keyed in a Folder's apps tree by its
// app id.
type App struct {
	ID     string
	groups treeHandle[*AppGroup]
}

func newApp(id string) *App {
	return &App{ID: id, groups: newLiveTree[*AppGroup]()}
}

// Group returns the named group ("[Section]") of app, if present.
func (a *App) Group(name string) (*AppGroup, bool) { return a.groups.Lookup(name) }

// MimeSubTypeValue is one entry of a MimeSubType's app list: the app id as
// declared in the source file, and the App it resolves to (lazily created,
// with an empty group tree, when a ".list" association names an app with
// no corresponding ".desktop" file).
type MimeSubTypeValue struct {
	Name string
	App  *App
}

// MimeSubType is the second component of a "type/subtype" MIME pair. Its
// apps are stored in a plain list.List; folder-level query composition
// joins several folders' lists into one list.JointList without copying.
type MimeSubType struct {
	Apps *list.List[*MimeSubTypeValue]
}

func newMimeSubType() *MimeSubType {
	return &MimeSubType{Apps: list.NewList[*MimeSubTypeValue]()}
}

// MimeType is the first component of a "type/subtype" MIME pair.
type MimeType struct {
	subTypes treeHandle[*MimeSubType]
}

func newMimeType() *MimeType {
	return &MimeType{subTypes: newLiveTree[*MimeSubType]()}
}

// MimeGroup is one "[Section]" of a ".list" file (e.g. "Added
// Associations"), mapping "type/subtype" keys to their declared apps.
type MimeGroup struct {
	types treeHandle[*MimeType]
}

func newMimeGroup() *MimeGroup {
	return &MimeGroup{types: newLiveTree[*MimeType]()}
}
