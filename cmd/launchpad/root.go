package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/launchpad/internal/version"
	"github.com/arthur-debert/launchpad/pkg/logging"
)

var (
	verbosity int

	rootCmd = &cobra.Command{
		Use:   "launchpad",
		Short: "Scaffold, provision, and deploy a paid SaaS project",
		Long: `launchpad turns a project template into a deployed SaaS: it copies the
template, fills in your project's name, domain, and title, provisions a
Stripe payment link and webhook, writes the secrets file, and deploys
with wrangler.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newNewCmd())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for launchpad`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("launchpad version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}
