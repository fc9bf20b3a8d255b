package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-life-vault/models"
)

var buildInfo models.AppBuildInfo

// SetBuildInfo records the linker-injected build metadata shown by the
// version command. Call before Execute.
func SetBuildInfo(info models.AppBuildInfo) {
	buildInfo = info
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Build version: %s\n", orNA(buildInfo.BuildVersion()))
		fmt.Printf("Build date: %s\n", orNA(buildInfo.BuildDate()))
		fmt.Printf("Build commit: %s\n", orNA(buildInfo.BuildCommit()))
	},
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
