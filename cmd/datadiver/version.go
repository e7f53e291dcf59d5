package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set at release time via -ldflags; empty in a plain `go build`.
var (
	buildVersion = ""
	buildCommit  = ""
	buildDate    = ""
)

// buildInfo describes the running binary.
type buildInfo struct {
	Version string
	Commit  string
	Date    string
}

// currentBuild resolves the binary's build information. Release values
// injected through ldflags win; otherwise the VCS metadata Go embeds at
// build time fills the gaps.
func currentBuild() buildInfo {
	b := buildInfo{Version: buildVersion, Commit: buildCommit, Date: buildDate}

	if info, ok := debug.ReadBuildInfo(); ok {
		if b.Version == "" {
			b.Version = info.Main.Version
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if b.Commit == "" {
					b.Commit = shortHash(setting.Value)
				}
			case "vcs.time":
				if b.Date == "" {
					b.Date = setting.Value
				}
			}
		}
	}

	if b.Version == "" {
		b.Version = "(devel)"
	}
	if b.Commit == "" {
		b.Commit = "unknown"
	}
	if b.Date == "" {
		b.Date = "unknown"
	}
	return b
}

// shortHash abbreviates a VCS revision to seven characters.
func shortHash(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of datadiver.`,
		Run: func(cmd *cobra.Command, _ []string) {
			b := currentBuild()
			fmt.Fprintf(cmd.OutOrStdout(), "datadiver %s (commit %s, built %s)\n", b.Version, b.Commit, b.Date)
		},
	}
}
