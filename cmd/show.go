package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/pkg/ui"
)

var (
	showCopyTriggers bool
	showCopyPrompt   bool
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one asset in full detail",
	Long: `Show an asset's metadata, media files and linked assets.
Without an id an interactive fuzzy picker opens over the whole catalog.

Examples:
  lokarni show 42
  lokarni show
  lokarni show 42 --copy-triggers`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showCopyTriggers, "copy-triggers", false, "Copy trigger words to the clipboard")
	showCmd.Flags().BoolVar(&showCopyPrompt, "copy-prompt", false, "Copy the positive prompt to the clipboard")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	id, err := resolveAssetID(args)
	if err != nil {
		return err
	}

	asset, err := apiClient.Get(ctx, id)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to load asset"))
		return err
	}

	printAsset(asset)

	if showCopyTriggers {
		if asset.TriggerWords == "" {
			fmt.Println(ui.FormatWarning("Asset has no trigger words"))
		} else if err := clipboard.WriteAll(asset.TriggerWords); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		} else {
			fmt.Println(ui.FormatSuccess("Trigger words copied to clipboard"))
		}
	}
	if showCopyPrompt {
		if asset.PositivePrompt == "" {
			fmt.Println(ui.FormatWarning("Asset has no positive prompt"))
		} else if err := clipboard.WriteAll(asset.PositivePrompt); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		} else {
			fmt.Println(ui.FormatSuccess("Prompt copied to clipboard"))
		}
	}
	return nil
}

// resolveAssetID parses the id argument or opens a fuzzy picker.
func resolveAssetID(args []string) (int, error) {
	if len(args) == 1 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("invalid asset id %q", args[0])
		}
		return id, nil
	}
	return pickAsset()
}

// pickAsset lets the user fuzzy-search the whole catalog.
func pickAsset() (int, error) {
	assets, err := apiClient.List(getContext(), domain.AllAssetsCategory, false)
	if err != nil {
		return 0, err
	}
	if len(assets) == 0 {
		return 0, fmt.Errorf("catalog is empty")
	}
	idx, err := fuzzyfinder.Find(assets,
		func(i int) string {
			return fmt.Sprintf("%s (%s)", assets[i].Name, assets[i].Type)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 {
				return ""
			}
			a := assets[i]
			return fmt.Sprintf("%s\n\nType: %s\nBase: %s\nMedia: %d\n\n%s",
				a.Name, a.Type, a.BaseModel, a.MediaCount(), a.Description)
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("selection cancelled: %w", err)
	}
	return assets[idx].ID, nil
}

func printAsset(a *domain.Asset) {
	title := a.Name
	if a.IsFavorite {
		title = ui.IconFavorite + " " + title
	}
	fmt.Println(ui.FormatTitle(title))
	if a.Mature() {
		fmt.Println(ui.MatureBadge(true) + " " + ui.FormatMuted("NSFW: "+a.NSFWLevel))
	}
	fmt.Println()

	fmt.Println(ui.RenderKeyValue("ID", strconv.Itoa(a.ID)))
	fmt.Println(ui.RenderKeyValue("Type", a.Type))
	if a.BaseModel != "" {
		fmt.Println(ui.RenderKeyValue("Base model", a.BaseModel))
	}
	if a.ModelVersion != "" {
		fmt.Println(ui.RenderKeyValue("Version", a.ModelVersion))
	}
	if a.Creator != "" {
		fmt.Println(ui.RenderKeyValue("Creator", a.Creator))
	}
	if a.Path != "" {
		fmt.Println(ui.RenderKeyValue("Path", a.Path))
	}
	if a.DownloadURL != "" {
		fmt.Println(ui.RenderKeyValue("Download", a.DownloadURL))
	}
	if a.TriggerWords != "" {
		fmt.Println(ui.RenderKeyValue("Triggers", a.TriggerWords))
	}
	if tags := a.TagList(); len(tags) > 0 {
		fmt.Println(ui.RenderKeyValue("Tags", strings.Join(tags, ", ")))
	}
	if a.Description != "" {
		fmt.Println()
		fmt.Println(ui.FormatBold("Description"))
		fmt.Println(a.Description)
	}
	if a.PositivePrompt != "" {
		fmt.Println()
		fmt.Println(ui.FormatBold("Positive prompt"))
		fmt.Println(a.PositivePrompt)
	}
	if a.NegativePrompt != "" {
		fmt.Println(ui.FormatBold("Negative prompt"))
		fmt.Println(a.NegativePrompt)
	}
	if len(a.CustomFields) > 0 {
		fmt.Println()
		fmt.Println(ui.FormatBold("Custom fields"))
		for k, v := range a.CustomFields {
			fmt.Println(ui.RenderKeyValue("  "+k, v))
		}
	}
	if len(a.MediaFiles) > 0 {
		fmt.Println()
		fmt.Println(ui.FormatBold(fmt.Sprintf("Media (%d)", a.MediaCount())))
		fmt.Print(ui.RenderSimpleList(a.MediaFiles))
	}
	if len(a.LinkedAssets) > 0 {
		fmt.Println()
		linked := make([]string, 0, len(a.LinkedAssets))
		for _, id := range a.LinkedAssets {
			linked = append(linked, strconv.Itoa(id))
		}
		fmt.Println(ui.RenderKeyValue("Linked assets", strings.Join(linked, ", ")))
	}
}
