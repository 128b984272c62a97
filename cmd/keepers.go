package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Billy-Davies-2/draftkit/internal/draft"
	"github.com/Billy-Davies-2/draftkit/internal/outwriter"
)

// keepersCmd selects keepers from a JSON file.
var keepersCmd = &cobra.Command{
	Use:   "keepers",
	Short: "Choose keepers from a list of eligible candidates.",
	Long: `Rank keeper-eligible candidates by projected value minus cost and keep the
best ones within the league's keeper count and cap.

The file holds {"candidates":[{"candidate":{...},"projectedValue":..,"cost":..}]}
and may carry a "config" object overriding the league keeper rules. Use - for stdin.

Examples:
  draftkit keepers --file keepers.json
  cat keepers.json | draftkit keepers --file - --output json`,
	Args:    cobra.NoArgs,
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("file")
		req, err := readKeeperRequest(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}

		// Keeper selection never reads the draft store
		svc, err := newService(cfg, nil, nil, nil)
		if err != nil {
			return err
		}
		return outwriter.WriteKeepers(cmd.OutOrStdout(), svc.SelectKeepers(req), format)
	},
}

func readKeeperRequest(stdin io.Reader, path string) (draft.KeeperRequest, error) {
	var req draft.KeeperRequest
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return req, fmt.Errorf("failed to open keeper file: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return req, fmt.Errorf("failed to parse keeper file: %w", err)
	}
	return req, nil
}

func init() {
	keepersCmd.Flags().StringP("file", "f", "", "JSON file with keeper candidates, or - for stdin")
	_ = keepersCmd.MarkFlagRequired("file")
}
