package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/internal/core/services"
	"github.com/lokarni/lokarni-cli/pkg/ui"
)

var (
	listCategory string
	listType     string
	listName     string
	listSortBy   string
	listDesc     bool
	listPage     int
	listAll      bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List cataloged assets",
	Aliases: []string{"ls"},
	Long: `List assets in a table, one page of 20 at a time.

Examples:
  lokarni list
  lokarni list --category Favorites
  lokarni list --type LoRA --name anime
  lokarni list --sort media --desc
  lokarni list --page 3
  lokarni list --all`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", domain.AllAssetsCategory, "Category or subcategory to list")
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "Filter by exact asset type")
	listCmd.Flags().StringVarP(&listName, "name", "n", "", "Filter by name substring")
	listCmd.Flags().StringVar(&listSortBy, "sort", "name", "Sort by field (name, type, media)")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "Sort descending")
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "Page number")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Print every page")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	if err := catalogService.Reload(ctx, listCategory); err != nil {
		fmt.Println(ui.FormatError("Failed to load assets"))
		return err
	}
	catalogService.SetQuery(listName)
	catalogService.SetTypeFilter(listType)

	key := services.SortKey(listSortBy)
	switch key {
	case services.SortByName, services.SortByType, services.SortByMedia:
	default:
		return fmt.Errorf("unknown sort field %q", listSortBy)
	}
	catalogService.SortBy(key)
	if listDesc {
		// Reselecting the column flips to descending.
		catalogService.SortBy(key)
	}

	var assets []domain.Asset
	if listAll {
		assets = catalogService.All()
	} else {
		catalogService.SetPage(listPage)
		assets = catalogService.Visible()
	}

	if len(assets) == 0 {
		fmt.Println(ui.FormatWarning("No assets found"))
		fmt.Println(ui.FormatInfo("Import something with: lokarni import url <civitai-url>"))
		return nil
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("Assets (%s)", listCategory)))
	fmt.Println()

	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Width: 5, Align: "right"},
		{Header: "", Width: 1},
		{Header: "Name", Width: 36},
		{Header: "Type", Width: 12},
		{Header: "Base", Width: 10},
		{Header: "Media", Width: 5, Align: "right"},
	})
	for _, a := range assets {
		table.AddRow([]string{
			strconv.Itoa(a.ID),
			ui.Favorite(a.IsFavorite),
			ui.Truncate(a.Name, 36),
			ui.Truncate(a.Type, 12),
			ui.Truncate(a.BaseModel, 10),
			strconv.Itoa(a.MediaCount()),
		})
	}
	fmt.Print(table.Render())
	fmt.Println()

	total := len(catalogService.All())
	if listAll {
		fmt.Println(ui.FormatMuted(fmt.Sprintf("Total: %d assets", total)))
	} else {
		fmt.Println(ui.FormatMuted(fmt.Sprintf("Page %d/%d, %d assets total",
			catalogService.Page(), catalogService.TotalPages(), total)))
	}
	return nil
}
