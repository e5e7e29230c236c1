package xdg

import (
	"github.com/samber/lo"

	"github.com/joshuapare/xdgentry/desktopentry"
)

// SuppressRemoved returns the apps in known that are not named by removed
// (matched by app id), preserving known's order. The library never filters
// KnownApps/DefaultApps/AddedApps on its own, since a removal only applies
// within the scope a caller chooses to honor it.
func SuppressRemoved(known, removed []*desktopentry.MimeSubTypeValue) []*desktopentry.MimeSubTypeValue {
	blocked := lo.SliceToMap(removed, func(v *desktopentry.MimeSubTypeValue) (string, struct{}) {
		return v.Name, struct{}{}
	})
	return lo.Filter(known, func(v *desktopentry.MimeSubTypeValue, _ int) bool {
		_, blocked := blocked[v.Name]
		return !blocked
	})
}

// AppIDs materializes the app ids named by values, in order: a thin
// convenience for CLI/printing call sites that want a plain []string
// rather than an iterator.
func AppIDs(values []*desktopentry.MimeSubTypeValue) []string {
	return lo.Map(values, func(v *desktopentry.MimeSubTypeValue, _ int) string { return v.Name })
}
