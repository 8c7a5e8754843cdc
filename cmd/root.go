package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dramaradar",
		Short:         "Watch the Maoyan web-heat ranking for newly listed dramas",
		Long:          "dramaradar fetches the Maoyan web-heat ranking, diffs it against a durable seen-set, and sends a Telegram notification for every title that appears for the first time.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newWatchCmd(app),
		newSeenCmd(app),
	)

	return rootCmd
}
