package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/lokarni/lokarni-cli/internal/core/domain"
	"github.com/lokarni/lokarni-cli/internal/core/ports"
	"github.com/lokarni/lokarni-cli/pkg/ui"
)

var (
	importType      string
	importWatch     bool
	importSearchLim int
)

// importCmd represents the import command group
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import assets from CivitAI, images or archives",
}

var importURLCmd = &cobra.Command{
	Use:   "url <civitai-url>",
	Short: "Import a model from a CivitAI page URL",
	Long: `Import a CivitAI model with its metadata, trigger words and preview
images. A stored API key ('lokarni config set-key') authorizes access to
restricted models.

Examples:
  lokarni import url https://civitai.com/models/4201
  lokarni import url 4201`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		if _, err := strconv.Atoi(url); err == nil {
			url = "https://civitai.com/models/" + url
		}
		asset, err := importService.FromCivitai(getContext(), url, civitaiKey())
		if err != nil {
			fmt.Println(ui.FormatError("Import failed"))
			return err
		}
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Imported %d: %s", asset.ID, asset.Name)))
		return nil
	},
}

var importImageCmd = &cobra.Command{
	Use:   "image <civitai-image-id>",
	Short: "Import a single CivitAI image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid image id %q", args[0])
		}
		asset, err := importService.FromCivitaiImage(getContext(), id)
		if err != nil {
			fmt.Println(ui.FormatError("Import failed"))
			return err
		}
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Imported %d: %s", asset.ID, asset.Name)))
		return nil
	},
}

var importSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search CivitAI and import the picked model",
	Long: `Search models on CivitAI through the backend proxy, pick one in a
fuzzy finder and import it. Timed-out searches are retried a couple of
times before giving up.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportSearch,
}

var importImagesCmd = &cobra.Command{
	Use:   "images <file|dir>...",
	Short: "Import local images with metadata extraction",
	Long: `Queue local images, extract their embedded generation metadata and
import them as Images assets. At most 10 images per batch.

With --watch the given directory is monitored and new images are imported
as they appear, until interrupted.

Examples:
  lokarni import images render1.png render2.png
  lokarni import images ~/outputs --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImportImages,
}

var importZipCmd = &cobra.Command{
	Use:   "zip <archive>",
	Short: "Restore assets from an exported archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := apiClient.ImportArchive(getContext(), args[0])
		if err != nil {
			fmt.Println(ui.FormatError("Archive import failed"))
			return err
		}
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Imported %d asset(s) from archive", n)))
		return nil
	},
}

func init() {
	importImagesCmd.Flags().StringVarP(&importType, "type", "t", "Images", "Asset type for imported images")
	importImagesCmd.Flags().BoolVarP(&importWatch, "watch", "w", false, "Watch a directory and import new images")
	importSearchCmd.Flags().IntVar(&importSearchLim, "limit", 20, "Maximum search results")

	importCmd.AddCommand(importURLCmd)
	importCmd.AddCommand(importImageCmd)
	importCmd.AddCommand(importSearchCmd)
	importCmd.AddCommand(importImagesCmd)
	importCmd.AddCommand(importZipCmd)
}

func runImportSearch(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	hits, err := importService.Search(ctx, ports.CivitaiSearchRequest{
		Query:  args[0],
		Limit:  importSearchLim,
		APIKey: civitaiKey(),
	})
	if err != nil {
		fmt.Println(ui.FormatError("CivitAI search failed"))
		return err
	}
	if len(hits) == 0 {
		fmt.Println(ui.FormatWarning("No models found for " + strconv.Quote(args[0])))
		return nil
	}

	idx, err := fuzzyfinder.Find(hits,
		func(i int) string {
			return fmt.Sprintf("%s (%s)", hits[i].Name, hits[i].Type)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 {
				return ""
			}
			m := hits[i]
			nsfw := ""
			if m.NSFW {
				nsfw = "\nNSFW"
			}
			return fmt.Sprintf("%s\n\nType: %s\nCreator: %s%s", m.Name, m.Type, m.Creator, nsfw)
		}),
	)
	if err != nil {
		return nil
	}

	asset, err := importService.FromCivitai(ctx,
		fmt.Sprintf("https://civitai.com/models/%d", hits[idx].ID), civitaiKey())
	if err != nil {
		fmt.Println(ui.FormatError("Import failed"))
		return err
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Imported %d: %s", asset.ID, asset.Name)))
	return nil
}

func runImportImages(cmd *cobra.Command, args []string) error {
	if importWatch {
		return watchImages(args[0])
	}

	ctx := getContext()
	queued := 0
	for _, arg := range args {
		if err := importService.AddFile(ctx, arg); err != nil {
			fmt.Println(ui.FormatWarning("Skipping " + arg + ": " + err.Error()))
			continue
		}
		queued++
	}
	if queued == 0 {
		fmt.Println(ui.FormatWarning("Nothing queued"))
		return nil
	}

	done, failed := importService.Run(ctx, importType)
	for _, item := range importService.Queue() {
		switch item.State {
		case domain.UploadDone:
			fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s -> asset %d", item.Source(), item.AssetID)))
		case domain.UploadFailed:
			fmt.Println(ui.FormatError(item.Source() + ": " + item.Err))
		}
	}
	importService.Clear()

	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("Imported %d, failed %d", done, failed)))
	if failed > 0 {
		return fmt.Errorf("%d import(s) failed", failed)
	}
	return nil
}

// watchImages monitors a directory and imports images as they land. Writes
// are debounced per batch so a burst of renders imports in one pass.
func watchImages(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	fmt.Println(ui.FormatInfo("Watching: " + dir))
	fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
	fmt.Println()

	ctx := getContext()
	debounce := appConfig.SearchDebounce

	// The timer callback runs on its own goroutine, so it only signals the
	// select loop instead of touching the importer itself. A stopped timer
	// may still fire; the buffered channel coalesces that into one flush.
	flush := make(chan struct{}, 1)
	requestFlush := func() {
		select {
		case flush <- struct{}{}:
		default:
		}
	}
	var debounceTimer *time.Timer

	runBatch := func() {
		queue := importService.Queue()
		if len(queue) == 0 {
			return
		}
		done, failed := importService.Run(ctx, importType)
		for _, item := range importService.Queue() {
			if item.State == domain.UploadFailed {
				fmt.Println(ui.FormatError(item.Source() + ": " + item.Err))
			}
		}
		importService.Clear()
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Imported %d, failed %d", done, failed)))
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isImageFile(event.Name) {
				continue
			}
			if err := importService.AddFile(ctx, event.Name); err != nil {
				// A full queue flushes immediately and requeues the file.
				runBatch()
				if err := importService.AddFile(ctx, event.Name); err != nil {
					fmt.Println(ui.FormatWarning("Skipping " + event.Name + ": " + err.Error()))
					continue
				}
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, requestFlush)

		case <-flush:
			runBatch()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			appLog.Warnw("watcher error", "error", err)
		}
	}
}

func isImageFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
		return true
	}
	return false
}
