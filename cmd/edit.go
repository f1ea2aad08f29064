package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/lokarni/lokarni-cli/internal/core/services"
	"github.com/lokarni/lokarni-cli/pkg/ui"
)

var (
	editName        string
	editType        string
	editDescription string
	editTriggers    string
	editTags        string
	editPositive    string
	editNegative    string
	editBase        string
	editNSFW        string
	editAddMedia    []string
	editAddURLs     []string
	editRemoveMedia []string
	editLink        []int
	editUnlink      []int
	editPickLink    string
	editSet         []string
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit an asset's metadata and media",
	Long: `Open an asset as a draft, apply the given changes and save them in
one update. Nothing touches the backend until the save; a failed upload
leaves the asset exactly as it was.

Removing the last media file of an asset that has media is refused.

Examples:
  lokarni edit 42 --name "Better Name" --tags "anime, style"
  lokarni edit 42 --add-media preview.png --remove-media /images/LoRA/old.png
  lokarni edit 42 --link 7 --unlink 9
  lokarni edit 42 --set "Steps=30" --set "Sampler=Euler a"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editName, "name", "", "New name")
	editCmd.Flags().StringVar(&editType, "type", "", "New asset type")
	editCmd.Flags().StringVar(&editDescription, "description", "", "New description")
	editCmd.Flags().StringVar(&editTriggers, "triggers", "", "New trigger words")
	editCmd.Flags().StringVar(&editTags, "tags", "", "New comma-separated tags")
	editCmd.Flags().StringVar(&editPositive, "positive", "", "New positive prompt")
	editCmd.Flags().StringVar(&editNegative, "negative", "", "New negative prompt")
	editCmd.Flags().StringVar(&editBase, "base", "", "New base model")
	editCmd.Flags().StringVar(&editNSFW, "nsfw", "", "NSFW level (none, soft, mature, x)")
	editCmd.Flags().StringSliceVar(&editAddMedia, "add-media", nil, "Local media files to attach")
	editCmd.Flags().StringSliceVar(&editAddURLs, "add-media-url", nil, "Remote media URLs to attach")
	editCmd.Flags().StringSliceVar(&editRemoveMedia, "remove-media", nil, "Existing media paths to remove")
	editCmd.Flags().IntSliceVar(&editLink, "link", nil, "Asset ids to link")
	editCmd.Flags().IntSliceVar(&editUnlink, "unlink", nil, "Asset ids to unlink")
	editCmd.Flags().StringVar(&editPickLink, "pick-link", "", "Search assets and pick one to link")
	editCmd.Flags().StringArrayVar(&editSet, "set", nil, "Custom field as key=value")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	id, err := resolveAssetID(args)
	if err != nil {
		return err
	}

	draft, err := editorService.Open(ctx, id)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to open asset"))
		return err
	}

	if cmd.Flags().Changed("name") {
		draft.Name = editName
	}
	if cmd.Flags().Changed("type") {
		draft.Type = editType
	}
	if cmd.Flags().Changed("description") {
		draft.Description = editDescription
	}
	if cmd.Flags().Changed("triggers") {
		draft.TriggerWords = editTriggers
	}
	if cmd.Flags().Changed("tags") {
		draft.Tags = editTags
	}
	if cmd.Flags().Changed("positive") {
		draft.PositivePrompt = editPositive
	}
	if cmd.Flags().Changed("negative") {
		draft.NegativePrompt = editNegative
	}
	if cmd.Flags().Changed("base") {
		draft.BaseModel = editBase
	}
	if cmd.Flags().Changed("nsfw") {
		draft.NSFWLevel = editNSFW
	}
	for _, path := range editRemoveMedia {
		draft.RemoveMedia(path)
	}
	draft.PendingFiles = append(draft.PendingFiles, editAddMedia...)
	draft.PendingURLs = append(draft.PendingURLs, editAddURLs...)
	for _, l := range editLink {
		draft.AddLink(l)
	}
	for _, l := range editUnlink {
		draft.RemoveLink(l)
	}
	if editPickLink != "" {
		hits, err := editorService.SearchLinks(ctx, draft, editPickLink)
		if err != nil {
			fmt.Println(ui.FormatError("Link search failed"))
			return err
		}
		if len(hits) == 0 {
			fmt.Println(ui.FormatWarning("No linkable assets match " + strconv.Quote(editPickLink)))
		} else {
			idx, err := fuzzyfinder.Find(hits, func(i int) string {
				return fmt.Sprintf("%d: %s (%s)", hits[i].ID, hits[i].Name, hits[i].Type)
			})
			if err == nil {
				draft.AddLink(hits[idx].ID)
			}
		}
	}
	for _, kv := range editSet {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid custom field %q, want key=value", kv)
		}
		draft.CustomFields[key] = value
	}

	if !draft.Dirty() {
		fmt.Println(ui.FormatInfo("Nothing to change"))
		return nil
	}

	saved, err := editorService.Save(ctx, draft)
	if err != nil {
		if errors.Is(err, services.ErrNoMedia) {
			fmt.Println(ui.FormatWarning("An asset with media must keep at least one file"))
			return err
		}
		fmt.Println(ui.FormatError("Save failed, asset unchanged"))
		return err
	}
	fmt.Println(ui.FormatSuccess("Saved asset " + strconv.Itoa(saved.ID) + ": " + saved.Name))
	return nil
}
