package root

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd is the base command for the RLST8 admin CLI. Subcommands (schema,
// org, etc.) are attached here.
var rootCmd = &cobra.Command{
	Use:           "rlst8",
	Short:         "RLST8 admin CLI",
	Long:          "Administrative utilities for RLST8 (schema bootstrap, organization onboarding).",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI. A local .env file is loaded first so subcommands can
// pick up DATABASE_URL and friends without explicit flags.
func Execute() error {
	_ = godotenv.Load()
	return rootCmd.Execute()
}

// Root returns the mutable root command for wiring from subpackages.
func Root() *cobra.Command {
	return rootCmd
}
