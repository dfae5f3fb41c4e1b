package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"winget-bootstrap/internal/logger"
)

// debug flag indicates whether debug logging should be enabled.
var debug bool

// configPath is the optional YAML file overriding the built-in downloads and packages.
var configPath string

// statePath is the JSON file recording the last run. Empty disables it.
var statePath = "state.json"

// rootCmd runs the whole flow: ensure winget, then install every configured package.
var rootCmd = &cobra.Command{
	Use:   "winget-bootstrap",
	Short: "Install winget if needed, then install Java runtimes with it",

	// PersistentPreRun initializes the logger before any subcommand.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug)
	},
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()
		ctx, cancel := app.runContext()
		defer cancel()

		env := app.ensureWinget(ctx)
		app.installPackages(ctx, env, app.cfg.Packages)
		app.saveState()
	},
}

// Execute registers flags and subcommands and runs the CLI.
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (defaults are built in)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", statePath, "Path to the run state file, empty to disable")

	rootCmd.AddCommand(wingetCmd)
	rootCmd.AddCommand(packagesCmd)

	// Cobra already printed usage errors.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
