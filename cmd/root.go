package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lokarni/lokarni-cli/internal/adapters/api"
	"github.com/lokarni/lokarni-cli/internal/adapters/prefs"
	"github.com/lokarni/lokarni-cli/internal/core/services"
	"github.com/lokarni/lokarni-cli/pkg/config"
	"github.com/lokarni/lokarni-cli/pkg/logging"
	"github.com/lokarni/lokarni-cli/pkg/ui"
)

var (
	appConfig *config.Config
	appLog    *zap.SugaredLogger
	appPrefs  *prefs.Store
	apiClient *api.Client

	catalogService  *services.Catalog
	editorService   *services.Editor
	categoryService *services.Categories
	importService   *services.Importer
	changeHub       *services.Hub
)

var (
	flagConfig  string
	flagVerbose bool
	flagBaseURL string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lokarni",
	Short: "Lokarni - catalog your local AI models and images",
	Long: ui.StyleTitle.Render("Lokarni") + " - Local AI Asset Manager\n\n" +
		"Browse, edit and import checkpoints, LoRAs and generated images\n" +
		"against a running Lokarni backend.",
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Backend address override")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(retypeCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp wires config, logging and the service graph before any
// command runs.
func initializeApp(cmd *cobra.Command, args []string) error {
	path := flagConfig
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	appConfig = cfg

	log, err := logging.New(cfg.Verbose)
	if err != nil {
		return err
	}
	appLog = log

	prefsPath, err := prefs.DefaultPath()
	if err != nil {
		return err
	}
	store, err := prefs.Open(prefsPath)
	if err != nil {
		return err
	}
	appPrefs = store

	apiClient = api.NewClient(cfg.BaseURL, cfg.Timeout, log)
	changeHub = services.NewHub()
	catalogService = services.NewCatalog(apiClient)
	catalogService.SetShowMature(store.GetBool(prefs.KeyShowNSFW, false))
	editorService = services.NewEditor(apiClient, apiClient, log)
	categoryService = services.NewCategories(apiClient, changeHub, log)
	importService = services.NewImporter(apiClient, apiClient, apiClient, log)

	return nil
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}

// civitaiKey resolves the CivitAI API key: the preference store wins over
// config and environment.
func civitaiKey() string {
	if key := appPrefs.GetString(prefs.KeyCivitaiAPIKey, ""); key != "" {
		return key
	}
	return appConfig.CivitaiAPIKey
}
