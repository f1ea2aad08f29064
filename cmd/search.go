package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lokarni/lokarni-cli/internal/adapters/prefs"
	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/pkg/ui"
)

var (
	searchCategory string
	searchKeywords bool
	searchKwLimit  int
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search assets across all metadata fields",
	Long: `Search name, tags, prompts and the other metadata fields on the
backend. With --keywords the ranked keyword cloud for the query is printed
instead of matching assets.

Examples:
  lokarni search "anime"
  lokarni search "portrait" --category Checkpoint
  lokarni search "anime" --keywords`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", domain.AllAssetsCategory, "Restrict to a category")
	searchCmd.Flags().BoolVarP(&searchKeywords, "keywords", "k", false, "Show the keyword cloud instead of assets")
	searchCmd.Flags().IntVar(&searchKwLimit, "limit", 15, "Maximum keywords shown")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	query := args[0]

	if searchKeywords {
		words, err := apiClient.Keywords(ctx, query, searchCategory)
		if err != nil {
			fmt.Println(ui.FormatError("Keyword lookup failed"))
			return err
		}
		if searchKwLimit > 0 && len(words) > searchKwLimit {
			words = words[:searchKwLimit]
		}
		if len(words) == 0 {
			fmt.Println(ui.FormatWarning("No keywords found"))
			return nil
		}
		fmt.Println(ui.FormatTitle("Keywords for " + strconv.Quote(query)))
		fmt.Println()
		for _, w := range words {
			fmt.Printf("%s %s\n",
				ui.StyleAccent.Render(fmt.Sprintf("%4d", w.Count)),
				w.Word)
		}
		return nil
	}

	assets, err := apiClient.Search(ctx, query, searchCategory)
	if err != nil {
		fmt.Println(ui.FormatError("Search failed"))
		return err
	}
	hidden := 0
	if !appPrefs.GetBool(prefs.KeyShowNSFW, false) {
		kept := assets[:0]
		for _, a := range assets {
			if a.Mature() {
				hidden++
				continue
			}
			kept = append(kept, a)
		}
		assets = kept
	}
	if len(assets) == 0 {
		fmt.Println(ui.FormatWarning("No assets match " + strconv.Quote(query)))
		if hidden > 0 {
			fmt.Println(ui.FormatMuted(fmt.Sprintf("%d NSFW result(s) hidden; enable with 'lokarni config nsfw on'", hidden)))
		}
		return nil
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("Results for %q (%d)", query, len(assets))))
	fmt.Println()
	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Width: 5, Align: "right"},
		{Header: "Name", Width: 36},
		{Header: "Type", Width: 12},
		{Header: "Tags", Width: 30},
	})
	for _, a := range assets {
		table.AddRow([]string{
			strconv.Itoa(a.ID),
			ui.Truncate(a.Name, 36),
			ui.Truncate(a.Type, 12),
			ui.Truncate(strings.Join(a.TagList(), ", "), 30),
		})
	}
	fmt.Print(table.Render())
	if hidden > 0 {
		fmt.Println(ui.FormatMuted(fmt.Sprintf("%d NSFW result(s) hidden", hidden)))
	}
	return nil
}
