package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lokarni/lokarni-cli/pkg/ui"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(ui.FormatBold("lokarni " + Version))
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}
