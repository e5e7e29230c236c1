// Package xdg is the process-facing entry point: it owns one
// desktopentry.Folder per discovered XDG data directory and composes
// query results across all of them in discovery order.
package xdg

import (
	"fmt"

	"github.com/joshuapare/xdgentry/basedir"
	"github.com/joshuapare/xdgentry/desktopentry"
	"github.com/joshuapare/xdgentry/list"
)

// Library is a handle over every XDG data directory's "applications"
// index, in basedir.DataDirs() discovery order. Callers own the handle,
// and multiple independent Library values may coexist.
type Library struct {
	folders []*desktopentry.Folder
}

// Option configures Init.
type Option func(*options)

type options struct {
	dataDirs []string
}

// WithDataDirs overrides basedir.DataDirs() as the set of directories to
// scan, each treated as a base directory with an "applications"
// subdirectory underneath (mainly for tests and alternate roots).
func WithDataDirs(dirs []string) Option {
	return func(o *options) { o.dataDirs = dirs }
}

// Init builds a Library by loading (cache-preferring, per
// desktopentry.Load) one Folder for every discovered data directory's
// "applications" subdirectory, in discovery order.
func Init(opts ...Option) *Library {
	o := options{dataDirs: basedir.DataDirs()}
	for _, opt := range opts {
		opt(&o)
	}

	lib := &Library{}
	for _, dir := range o.dataDirs {
		lib.folders = append(lib.folders, desktopentry.Load(applicationsDir(dir)))
	}
	return lib
}

func applicationsDir(dataDir string) string {
	if n := len(dataDir); n > 0 && dataDir[n-1] != '/' {
		return dataDir + "/applications"
	}
	return dataDir + "applications"
}

// Shutdown releases every folder's memory mapping and/or file descriptor.
func (l *Library) Shutdown() {
	for _, f := range l.folders {
		_ = f.Close()
	}
}

// RefreshReport identifies which folder, if any, failed to rebuild during
// a Refresh call.
type RefreshReport struct {
	FailedRoot string
	Err        error
}

// OK reports whether every folder refreshed without error.
func (r RefreshReport) OK() bool { return r.Err == nil }

// Refresh re-validates every folder and rebuilds (live scan + cache
// rewrite) any that are stale or cache-backed-but-invalid. It stops and
// reports the first folder that fails to rebuild; folders before it in
// discovery order are left refreshed, folders after it are left
// untouched.
func (l *Library) Refresh() RefreshReport {
	for i, f := range l.folders {
		if f.Valid() {
			continue
		}
		rebuilt, err := desktopentry.Rebuild(f.Root())
		if err != nil {
			return RefreshReport{FailedRoot: f.Root(), Err: fmt.Errorf("xdg: refresh %s: %w", f.Root(), err)}
		}
		_ = f.Close()
		l.folders[i] = rebuilt
	}
	return RefreshReport{}
}

func compose(
	folders []*desktopentry.Folder,
	lookup func(*desktopentry.Folder, string) *list.List[*desktopentry.MimeSubTypeValue],
	mime string,
) *list.JointList[*desktopentry.MimeSubTypeValue] {
	joint := list.NewJointList[*desktopentry.MimeSubTypeValue]()
	for _, f := range folders {
		joint.Append(lookup(f, mime))
	}
	return joint
}

// KnownApps composes every folder's declared-MimeType apps for mime, in
// discovery order, without copying any per-folder list.
func (l *Library) KnownApps(mime string) *list.JointList[*desktopentry.MimeSubTypeValue] {
	return compose(l.folders, (*desktopentry.Folder).KnownApps, mime)
}

// Apps composes every folder's ".list" declarations under the named
// section for mime, in discovery order. AddedApps, DefaultApps and
// RemovedApps are thin wrappers over it for the standard section names.
func (l *Library) Apps(section, mime string) *list.JointList[*desktopentry.MimeSubTypeValue] {
	return compose(l.folders, func(f *desktopentry.Folder, m string) *list.List[*desktopentry.MimeSubTypeValue] {
		return f.Apps(section, m)
	}, mime)
}

// AddedApps composes every folder's "Added Associations" for mime.
func (l *Library) AddedApps(mime string) *list.JointList[*desktopentry.MimeSubTypeValue] {
	return l.Apps("Added Associations", mime)
}

// DefaultApps composes every folder's "Default Applications" for mime.
func (l *Library) DefaultApps(mime string) *list.JointList[*desktopentry.MimeSubTypeValue] {
	return l.Apps("Default Applications", mime)
}

// RemovedApps composes every folder's "Removed Associations" for mime.
// Callers are responsible for filtering a RemovedApps result out of
// AddedApps/DefaultApps/KnownApps results themselves; SuppressRemoved
// does exactly that.
func (l *Library) RemovedApps(mime string) *list.JointList[*desktopentry.MimeSubTypeValue] {
	return l.Apps("Removed Associations", mime)
}
