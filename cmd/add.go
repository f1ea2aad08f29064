package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/pkg/ui"
)

var (
	addType     string
	addPath     string
	addTriggers string
	addTags     string
	addBase     string
	addDesc     string
	addMedia    []string
	addURLs     []string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new asset manually",
	Long: `Create a catalog entry by hand, optionally attaching media files
or remote image URLs. Attachments are uploaded before the asset is created.

Examples:
  lokarni add "Anime Style" --type LoRA --triggers "anime, cel shading"
  lokarni add "Realistic v6" --type Checkpoint --media preview.png`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addType, "type", "t", "Checkpoint", "Asset type")
	addCmd.Flags().StringVar(&addPath, "path", "", "Local file path of the model")
	addCmd.Flags().StringVar(&addTriggers, "triggers", "", "Trigger words")
	addCmd.Flags().StringVar(&addTags, "tags", "", "Comma-separated tags")
	addCmd.Flags().StringVar(&addBase, "base", "", "Base model (SD1.5, SDXL, ...)")
	addCmd.Flags().StringVar(&addDesc, "description", "", "Description text")
	addCmd.Flags().StringSliceVar(&addMedia, "media", nil, "Local media files to attach")
	addCmd.Flags().StringSliceVar(&addURLs, "media-url", nil, "Remote media URLs to attach")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	var media []string
	for _, path := range addMedia {
		stored, err := apiClient.UploadFile(ctx, path, addType)
		if err != nil {
			fmt.Println(ui.FormatError("Upload failed: " + path))
			return err
		}
		media = append(media, stored)
	}
	for _, url := range addURLs {
		stored, err := apiClient.UploadURL(ctx, url, addType)
		if err != nil {
			fmt.Println(ui.FormatError("Upload failed: " + url))
			return err
		}
		media = append(media, stored)
	}

	asset := domain.Asset{
		Name:         args[0],
		Type:         addType,
		Path:         addPath,
		TriggerWords: addTriggers,
		Tags:         addTags,
		BaseModel:    addBase,
		Description:  addDesc,
		MediaFiles:   media,
	}
	if len(media) > 0 {
		asset.PreviewImage = media[0]
	}

	created, err := apiClient.Create(ctx, asset)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to create asset"))
		return err
	}
	fmt.Println(ui.FormatSuccess("Created asset " + strconv.Itoa(created.ID) + ": " + created.Name))
	return nil
}
