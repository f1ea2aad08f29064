package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lokarni/lokarni-cli/internal/adapters/prefs"
	"github.com/lokarni/lokarni-cli/pkg/config"
	"github.com/lokarni/lokarni-cli/pkg/ui"
)

// configCmd represents the config command group
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show settings and manage preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := config.DefaultPath()
		fmt.Println(ui.FormatTitle("Settings"))
		fmt.Println()
		fmt.Println(ui.RenderKeyValue("Config file", path))
		fmt.Println(ui.RenderKeyValue("Backend", appConfig.BaseURL))
		fmt.Println(ui.RenderKeyValue("Timeout", appConfig.Timeout.String()))
		fmt.Println(ui.RenderKeyValue("Search debounce", appConfig.SearchDebounce.String()))
		fmt.Println()
		fmt.Println(ui.FormatBold("Preferences"))
		fmt.Println(ui.RenderKeyValue("Grid layout", appPrefs.GetString(prefs.KeyGridLayout, "grid")))
		fmt.Println(ui.RenderKeyValue("Show NSFW", fmt.Sprintf("%v", appPrefs.GetBool(prefs.KeyShowNSFW, false))))
		key := "not set"
		if civitaiKey() != "" {
			key = "set"
		}
		fmt.Println(ui.RenderKeyValue("CivitAI API key", key))
		return nil
	},
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [api-key]",
	Short: "Store the CivitAI API key",
	Long: `Store the CivitAI API key in the preference file. Without an
argument the key is read from stdin so it stays out of the shell history.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var key string
		if len(args) == 1 {
			key = args[0]
		} else {
			fmt.Print("API key: ")
			if _, err := fmt.Fscanln(os.Stdin, &key); err != nil {
				return fmt.Errorf("reading key: %w", err)
			}
		}
		if err := appPrefs.Set(prefs.KeyCivitaiAPIKey, key); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("API key stored"))
		return nil
	},
}

var configNSFWCmd = &cobra.Command{
	Use:   "nsfw <on|off>",
	Short: "Toggle NSFW visibility in the browser",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var show bool
		switch args[0] {
		case "on":
			show = true
		case "off":
			show = false
		default:
			return fmt.Errorf("want on or off, got %q", args[0])
		}
		if err := appPrefs.Set(prefs.KeyShowNSFW, show); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("NSFW visibility: " + args[0]))
		return nil
	},
}

var configLayoutCmd = &cobra.Command{
	Use:   "layout <grid|masonry>",
	Short: "Set the browser list layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "grid", "masonry":
		default:
			return fmt.Errorf("want grid or masonry, got %q", args[0])
		}
		if err := appPrefs.Set(prefs.KeyGridLayout, args[0]); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Grid layout: " + args[0]))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configNSFWCmd)
	configCmd.AddCommand(configLayoutCmd)
}
