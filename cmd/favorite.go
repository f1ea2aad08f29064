package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lokarni/lokarni-cli/pkg/ui"
)

// favoriteCmd represents the favorite command
var favoriteCmd = &cobra.Command{
	Use:     "favorite [id]",
	Short:   "Toggle an asset's favorite flag",
	Aliases: []string{"fav"},
	Long: `Flip the favorite marker on an asset. Without an id a fuzzy picker
opens over the whole catalog.

Examples:
  lokarni favorite 42
  lokarni fav`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFavorite,
}

func runFavorite(cmd *cobra.Command, args []string) error {
	id, err := resolveAssetID(args)
	if err != nil {
		return err
	}
	updated, err := apiClient.ToggleFavorite(getContext(), id)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to toggle favorite"))
		return err
	}
	if updated.IsFavorite {
		fmt.Println(ui.FormatSuccess(ui.IconFavorite + " Favorited " + strconv.Itoa(updated.ID) + ": " + updated.Name))
	} else {
		fmt.Println(ui.FormatSuccess("Unfavorited " + strconv.Itoa(updated.ID) + ": " + updated.Name))
	}
	return nil
}
