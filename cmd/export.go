package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lokarni/lokarni-cli/pkg/ui"
)

var exportOutput string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole catalog as an archive",
	Long: `Download a zip archive of every asset and its media from the
backend. Restore it later with 'lokarni import zip'.

Examples:
  lokarni export
  lokarni export -o backup.zip`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Archive path (default Lokarni_Export.zip)")
}

func runExport(cmd *cobra.Command, args []string) error {
	out := exportOutput
	if out == "" {
		out = "Lokarni_Export.zip"
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()

	if err := apiClient.Export(getContext(), f); err != nil {
		fmt.Println(ui.FormatError("Export failed"))
		os.Remove(out)
		return err
	}
	fmt.Println(ui.FormatSuccess("Exported catalog to " + out))
	return nil
}
