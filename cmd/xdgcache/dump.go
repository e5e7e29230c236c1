package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/xdgentry/xdg"
)

func init() {
	rootCmd.AddCommand(newDumpCmd())
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <mime-type>",
		Short: "Dump every app associated with a MIME type, across all data directories",
		Long: `The dump command composes KnownApps/AddedApps/DefaultApps/RemovedApps
for the given MIME type across every XDG data directory, in discovery
order, and prints the app ids found under each section.

Example:
  xdgcache dump text/plain
  xdgcache dump --json text/html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0])
		},
	}
}

type mimeDump struct {
	Mime     string   `json:"mime"`
	Known    []string `json:"known"`
	Added    []string `json:"added"`
	Default  []string `json:"default"`
	Removed  []string `json:"removed"`
	Suppress []string `json:"known_minus_removed"`
}

func runDump(mime string) error {
	lib := xdg.Init()
	defer lib.Shutdown()

	known := lib.KnownApps(mime).Slice()
	added := lib.AddedApps(mime).Slice()
	def := lib.DefaultApps(mime).Slice()
	removed := lib.RemovedApps(mime).Slice()

	result := mimeDump{
		Mime:     mime,
		Known:    xdg.AppIDs(known),
		Added:    xdg.AppIDs(added),
		Default:  xdg.AppIDs(def),
		Removed:  xdg.AppIDs(removed),
		Suppress: xdg.AppIDs(xdg.SuppressRemoved(known, removed)),
	}

	if jsonOut {
		return printJSON(result)
	}

	printInfo("%s\n", mime)
	printInfo("  known:    %v\n", result.Known)
	printInfo("  added:    %v\n", result.Added)
	printInfo("  default:  %v\n", result.Default)
	printInfo("  removed:  %v\n", result.Removed)
	printVerbose("  known-removed: %v\n", result.Suppress)
	return nil
}
