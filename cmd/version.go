package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"reimport.dev/pkg/reimport/internal/domain"
)

const unknownVersion = "unknown"

// readBuildInfo is swapped out by tests.
var readBuildInfo = debug.ReadBuildInfo

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the reimport version",
		Long:  "Print the reimport build version, the Go toolchain it was built with and the built-in rewrite defaults.",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Print(versionText())
		},
	}
}

func versionText() string {
	version, goVersion := unknownVersion, runtime.Version()

	if info, ok := readBuildInfo(); ok {
		if info.Main.Version != "" {
			version = info.Main.Version
		}

		if info.GoVersion != "" {
			goVersion = info.GoVersion
		}
	}

	var b strings.Builder

	fmt.Fprintf(&b, "reimport version\t%s\n", version)
	fmt.Fprintf(&b, "go version\t%s\n", goVersion)
	fmt.Fprintf(&b, "built-in rules\t%d\n", domain.DefaultRuleTable().Len())
	fmt.Fprintf(&b, "backup suffix\t%s\n", domain.DefaultBackupSuffix)

	return b.String()
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
