package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Billy-Davies-2/draftkit/internal/outwriter"
)

// gradeCmd grades a team's picks.
var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Grade a team's draft so far.",
	Long: `Score a team's picks against ADP: value picks, reaches and steals,
roster balance, upside and floor, and an overall letter grade.

Examples:
  draftkit grade --team t1 --db-driver sqlite`,
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

		teamID, _ := cmd.Flags().GetString("team")
		analytics, err := svc.Analyze(teamID)
		if err != nil {
			return err
		}
		return outwriter.WriteAnalytics(cmd.OutOrStdout(), analytics, format)
	},
}

func init() {
	gradeCmd.Flags().StringP("team", "t", "", "Team id to grade")
	_ = gradeCmd.MarkFlagRequired("team")
}
