package commands

import (
	"fmt"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/google"
	"github.com/OwlvinAiDevs/OwlvinAi/supabase"
	"github.com/spf13/cobra"
)

func NewAuthCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize remote services",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "google",
		Short: "Authorize Google Calendar and Drive access",
		Long: `Opens the Google consent flow and caches the resulting token.

The client credentials come from GOOGLE_CREDENTIALS_FILE, or credentials.json
in the user config directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, token, err := googleFiles(opts.Settings)
			if err != nil {
				return err
			}
			if _, err := google.Authorize(cmd.Context(), creds, token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", token)
			return nil
		},
	})
	return cmd
}

func NewTokenCommand(opts *RootOptions) *cobra.Command {
	var (
		userID int
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := supabase.GenerateToken(opts.Settings.SupabaseJWTSecret, userID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().IntVar(&userID, "user", 1, "user id")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
