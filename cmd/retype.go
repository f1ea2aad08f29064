package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lokarni/lokarni-cli/pkg/ui"
)

// retypeCmd represents the retype command
var retypeCmd = &cobra.Command{
	Use:   "retype <new-type> <id>...",
	Short: "Reassign the type of one or more assets",
	Long: `Move assets to a different type. Assets are updated one by one;
the run stops at the first failure and earlier changes stay applied.

Examples:
  lokarni retype LoRA 4 5 6
  lokarni retype Checkpoint 42`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRetype,
}

func runRetype(cmd *cobra.Command, args []string) error {
	newType := args[0]
	ids := make([]int, 0, len(args)-1)
	for _, arg := range args[1:] {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid asset id %q", arg)
		}
		ids = append(ids, id)
	}

	done, err := catalogService.RetypeMany(getContext(), ids, newType)
	if err != nil {
		fmt.Println(ui.FormatError(fmt.Sprintf("Retyped %d of %d, then failed", done, len(ids))))
		return err
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Moved %d asset(s) to %s", done, newType)))
	return nil
}
