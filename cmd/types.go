package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lokarni/lokarni-cli/pkg/ui"
)

// typesCmd represents the types command group
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List or register asset types",
	RunE: func(cmd *cobra.Command, args []string) error {
		types, err := apiClient.ListTypes(getContext())
		if err != nil {
			fmt.Println(ui.FormatError("Failed to load types"))
			return err
		}
		if len(types) == 0 {
			fmt.Println(ui.FormatWarning("No types registered"))
			return nil
		}
		fmt.Println(ui.FormatTitle(fmt.Sprintf("Asset types (%d)", len(types))))
		fmt.Println()
		fmt.Print(ui.RenderSimpleList(types))
		return nil
	},
}

var typesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a new asset type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient.CreateType(getContext(), args[0]); err != nil {
			fmt.Println(ui.FormatError("Failed to create type"))
			return err
		}
		fmt.Println(ui.FormatSuccess("Registered type " + args[0]))
		return nil
	},
}

func init() {
	typesCmd.AddCommand(typesAddCmd)
}
