package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

func NewGenerateCommand(opts *RootOptions) *cobra.Command {
	var userID int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a study schedule from open tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.Settings)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.orchestrator.GenerateSchedule(cmd.Context(), userID)
			return printResult(cmd.OutOrStdout(), opts.Format, res)
		},
	}
	cmd.Flags().IntVar(&userID, "user", 1, "user id")
	return cmd
}

func NewChatCommand(opts *RootOptions) *cobra.Command {
	var (
		userID    int
		noContext bool
	)

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the planner in free text",
		Example: `  owlvin chat "move my essay session to the afternoon"
  owlvin chat --no-context "how do pomodoros work?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.Settings)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.orchestrator.Chat(cmd.Context(), userID, strings.Join(args, " "), !noContext)
			return printResult(cmd.OutOrStdout(), opts.Format, res)
		},
	}
	cmd.Flags().IntVar(&userID, "user", 1, "user id")
	cmd.Flags().BoolVar(&noContext, "no-context", false, "do not let the planner use stored tasks")
	return cmd
}
