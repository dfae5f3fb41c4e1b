package cmd

import (
	"github.com/spf13/cobra"

	"winget-bootstrap/internal/installer"
)

// wingetCmd only makes sure winget is installed and callable.
var wingetCmd = &cobra.Command{
	Use:   "winget",
	Short: "Install winget if it is missing",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()
		ctx, cancel := app.runContext()
		defer cancel()

		app.ensureWinget(ctx)
		app.saveState()
	},
}

// packagesCmd runs only the install loop against an already available winget.
// Ids given on the command line replace the configured list.
var packagesCmd = &cobra.Command{
	Use:   "packages [id...]",
	Short: "Install packages with an existing winget",
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()
		ctx, cancel := app.runContext()
		defer cancel()

		ids := app.cfg.Packages
		if len(args) > 0 {
			ids = args
		}
		app.installPackages(ctx, installer.CurrentEnvironment(), ids)
		app.saveState()
	},
}
