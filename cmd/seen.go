package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/dramaradar/internal/adapters/render/watchreport"
)

func newSeenCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "seen",
		Short: "List titles already recorded in the seen-set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			records, err := repo.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list seen titles: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}

			rendered, err := watchreport.RenderSeen(records, watchreport.RenderOptions{Location: app.location()})
			if err != nil {
				return fmt.Errorf("render seen list: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
