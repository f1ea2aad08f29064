package cmd

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/pkg/ui"
)

var statsHTML string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	Long: `Analyze the catalog and display useful statistics.

Includes:
  - Asset and media counts
  - Type distribution
  - Base model distribution
  - Favorite ratio

With --html the distributions are also written as an interactive chart
page.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsHTML, "html", "", "Write an interactive chart page to this file")
}

func runStats(cmd *cobra.Command, args []string) error {
	assets, err := apiClient.List(getContext(), domain.AllAssetsCategory, false)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to load assets"))
		return err
	}

	totalAssets := len(assets)
	totalMedia := 0
	favorites := 0
	mature := 0
	typeCounts := make(map[string]int)
	baseCounts := make(map[string]int)

	for _, a := range assets {
		totalMedia += a.MediaCount()
		if a.IsFavorite {
			favorites++
		}
		if a.Mature() {
			mature++
		}
		typeCounts[a.Type]++
		if a.BaseModel != "" {
			baseCounts[a.BaseModel]++
		}
	}

	fmt.Println(ui.FormatTitle("Catalog Statistics"))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Total Assets:"), totalAssets)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Media Files:"), totalMedia)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("Favorites:"), favorites)
	fmt.Fprintf(w, "%s\t%d\n", ui.StyleBold.Render("NSFW Flagged:"), mature)
	avg := 0.0
	if totalAssets > 0 {
		avg = float64(totalMedia) / float64(totalAssets)
	}
	fmt.Fprintf(w, "%s\t%.1f files/asset\n", ui.StyleBold.Render("Average Media:"), avg)
	w.Flush()
	fmt.Println()

	renderDistribution("Types", typeCounts)
	renderDistribution("Base Models", baseCounts)

	if statsHTML != "" {
		if err := writeStatsPage(statsHTML, typeCounts, baseCounts); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Chart page written to " + statsHTML))
	}
	return nil
}

// renderDistribution displays a horizontal bar chart in the terminal.
func renderDistribution(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	fmt.Println(ui.StyleHeader.Render(title))

	sorted := sortedCounts(counts)
	limit := 8
	if len(sorted) < limit {
		limit = len(sorted)
	}
	maxCount := sorted[0].count
	barWidth := 20

	for i := 0; i < limit; i++ {
		e := sorted[i]
		length := int(math.Ceil(float64(e.count) / float64(maxCount) * float64(barWidth)))
		fmt.Printf("%s %-18s %s\n",
			ui.StyleAccent.Render(strings.Repeat("█", length)),
			ui.Truncate(e.name, 18),
			ui.StyleMuted.Render(fmt.Sprintf("%d", e.count)),
		)
	}
	fmt.Println()
}

type countEntry struct {
	name  string
	count int
}

func sortedCounts(counts map[string]int) []countEntry {
	sorted := make([]countEntry, 0, len(counts))
	for k, v := range counts {
		sorted = append(sorted, countEntry{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].name < sorted[j].name
	})
	return sorted
}

// writeStatsPage renders the distributions as an interactive HTML page.
func writeStatsPage(path string, typeCounts, baseCounts map[string]int) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Assets by Type"}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Lokarni Statistics"}),
	)
	var axis []string
	var values []opts.BarData
	for _, e := range sortedCounts(typeCounts) {
		axis = append(axis, e.name)
		values = append(values, opts.BarData{Value: e.count})
	}
	bar.SetXAxis(axis).AddSeries("assets", values)

	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Base Models"}))
	var slices []opts.PieData
	for _, e := range sortedCounts(baseCounts) {
		slices = append(slices, opts.PieData{Name: e.name, Value: e.count})
	}
	pie.AddSeries("base models", slices)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := bar.Render(f); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	if err := pie.Render(f); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}
