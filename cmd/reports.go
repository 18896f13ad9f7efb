package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-scout/internal/store"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List saved lead reports",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		url, _ := cmd.Flags().GetString("url")

		reports, err := st.ListReports(ctx, store.ReportFilter{URL: url, Limit: limit})
		if err != nil {
			return eris.Wrap(err, "reports list")
		}

		if len(reports) == 0 {
			_, _ = fmt.Fprintln(os.Stderr, "No reports found.")
			return nil
		}

		formatReportsList(cmd.OutOrStdout(), reports)
		return nil
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Show a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		sr, err := st.GetReport(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			return eris.Errorf("reports show: no report with id %s", args[0])
		}
		if err != nil {
			return eris.Wrap(err, "reports show")
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sr)
		}
		formatReport(cmd.OutOrStdout(), sr.Report, cfg.Scorer)
		return nil
	},
}

// openHistory opens the configured history store, failing when it is
// disabled.
func openHistory(cmd *cobra.Command) (store.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	st, err := store.Open(cmd.Context(), cfg.Store)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, eris.New("report history is disabled (store.driver is none)")
	}
	return st, nil
}

func init() {
	reportsCmd.Flags().Int("limit", store.DefaultListLimit, "max number of reports to display")
	reportsCmd.Flags().String("url", "", "only reports for this URL")
	reportsShowCmd.Flags().Bool("json", false, "print the stored report as JSON")

	reportsCmd.AddCommand(reportsShowCmd)
	rootCmd.AddCommand(reportsCmd)
}
