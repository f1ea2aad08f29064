package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lokarni/lokarni-cli/pkg/ui"
)

var deleteYes bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Short:   "Delete one or more assets",
	Aliases: []string{"rm"},
	Long: `Delete assets by id. Multiple ids are deleted one by one; the run
stops at the first failure and earlier deletions stay deleted.

Examples:
  lokarni delete 42
  lokarni delete 1 2 3 --yes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid asset id %q", arg)
		}
		ids = append(ids, id)
	}

	if !deleteYes {
		fmt.Printf("%s Delete %d asset(s)? [y/N] ", ui.IconWarning, len(ids))
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println(ui.FormatInfo("Aborted"))
			return nil
		}
	}

	done, err := catalogService.DeleteMany(getContext(), ids)
	if err != nil {
		fmt.Println(ui.FormatError(fmt.Sprintf("Deleted %d of %d, then failed", done, len(ids))))
		return err
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Deleted %d asset(s)", done)))
	return nil
}
