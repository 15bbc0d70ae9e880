package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/hl7view/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		fmt.Printf("hl7view v%s\n", info.Version)
		fmt.Printf("  Report schema: %s\n", info.ReportSchema)
		fmt.Printf("  Git commit:    %s\n", info.Commit)
		fmt.Printf("  Build date:    %s\n", info.BuildDate)
		fmt.Printf("  Go version:    %s\n", info.GoVersion)
		fmt.Printf("  OS/Arch:       %s\n", info.Platform)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
