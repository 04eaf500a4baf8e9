package commands

import (
	"fmt"
	"os"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile  string
	LogLevel string
	Database string
	Format   string

	Settings config.Settings
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "owlvin",
		Short: "Owlvin study planner",
		Long:  "Plans study sessions with the Owlvin AI service and keeps them in sync with your calendar and backups.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file to load (default .env)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level, overrides LOG_LEVEL")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database, overrides OWLVIN_DB_PATH")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewChatCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewTasksCommand(opts))
	cmd.AddCommand(NewAuthCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

func (o *RootOptions) load() error {
	if !isValidFormat(o.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", o.Format, ValidFormats)
	}

	config.InitLogger()
	if o.EnvFile != "" {
		config.LoadEnv(o.EnvFile)
	} else {
		config.LoadEnv()
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	if o.Database != "" {
		settings.DBPath = o.Database
	}
	if o.LogLevel != "" {
		settings.LogLevel = o.LogLevel
	}
	config.SetLogLevel(settings.LogLevel)
	o.Settings = settings
	return nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
