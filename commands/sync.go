package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewSyncCommand(opts *RootOptions) *cobra.Command {
	var userID int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile local data with remote services",
	}
	cmd.PersistentFlags().IntVar(&userID, "user", 1, "user id")

	cmd.AddCommand(&cobra.Command{
		Use:   "backup",
		Short: "Sync the local data with the configured backup store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.Settings)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.reconciler.SyncBackup(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup sync: %s\n", res.Action)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "calendar",
		Short: "Push the stored schedule to Google Calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.Settings)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.reconciler.PushSchedule(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), report)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %d, already present %d, skipped %d, failed %d.\n",
				report.Created, report.Existing, report.Skipped, report.Failed)
			for _, w := range report.Warnings {
				fmt.Fprintln(out, "warning:", w)
			}
			return nil
		},
	})

	return cmd
}
