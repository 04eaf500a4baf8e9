package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"github.com/spf13/cobra"
)

const dueLayout = "2006-01-02 15:04"

func NewTasksCommand(opts *RootOptions) *cobra.Command {
	var userID int

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage study tasks",
	}
	cmd.PersistentFlags().IntVar(&userID, "user", 1, "user id")

	cmd.AddCommand(newTasksAddCommand(opts, &userID))
	cmd.AddCommand(newTasksListCommand(opts, &userID))
	cmd.AddCommand(newTasksDoneCommand(opts, &userID))
	return cmd
}

func newTasksAddCommand(opts *RootOptions, userID *int) *cobra.Command {
	var (
		task types.Task
		due  string
	)

	cmd := &cobra.Command{
		Use:     "add <title>",
		Short:   "Add a task",
		Example: `  owlvin tasks add "Essay" --due "2024-03-04 17:00" --duration 50 --category Writing`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task.Title = args[0]
			task.UserID = *userID
			if due != "" {
				t, err := time.ParseInLocation(dueLayout, due, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --due %q, want %q", due, dueLayout)
				}
				task.DueDate = t
			}

			a, err := newApp(cmd.Context(), opts.Settings)
			if err != nil {
				return err
			}
			defer a.Close()

			saved, err := a.store.CreateTask(cmd.Context(), task)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), saved)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %d.\n", saved.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date, "+dueLayout)
	cmd.Flags().IntVar(&task.DurationMinutes, "duration", 0, "estimated minutes")
	cmd.Flags().StringVar(&task.Category, "category", "", "category")
	cmd.Flags().StringVar(&task.Description, "description", "", "description")
	return cmd
}

func newTasksListCommand(opts *RootOptions, userID *int) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.Settings)
			if err != nil {
				return err
			}
			defer a.Close()

			var tasks []types.Task
			if all {
				tasks, err = a.store.ListTasks(cmd.Context(), *userID)
			} else {
				tasks, err = a.store.ListIncompleteTasks(cmd.Context(), *userID)
			}
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), tasks)
			}
			printTasks(cmd.OutOrStdout(), tasks)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include completed tasks")
	return cmd
}

func newTasksDoneCommand(opts *RootOptions, userID *int) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}

			a, err := newApp(cmd.Context(), opts.Settings)
			if err != nil {
				return err
			}
			defer a.Close()

			task, err := a.store.CompleteTask(cmd.Context(), *userID, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %q.\n", task.Title)
			return nil
		},
	}
}
