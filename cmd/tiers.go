package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Billy-Davies-2/draftkit/internal/outwriter"
)

// tiersCmd prints tiers of the available pool.
var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Show tiers of the available candidates.",
	Long: `Group the undrafted candidates of each position into tiers by ADP gaps.

Examples:
  # All positions
  draftkit tiers

  # Running backs only, as JSON
  draftkit tiers --position RB --output json`,
	Args:    cobra.NoArgs,
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}
		svc, closeStore, err := openCLIService()
		if err != nil {
			return err
		}
		defer closeStore()

		position, _ := cmd.Flags().GetString("position")
		tiers, err := svc.Tiers(position)
		if err != nil {
			return err
		}
		return outwriter.WriteTiers(cmd.OutOrStdout(), tiers, format)
	},
}

func init() {
	tiersCmd.Flags().StringP("position", "p", "", "Only show one position (QB, RB, WR, TE, K, DST)")
}
