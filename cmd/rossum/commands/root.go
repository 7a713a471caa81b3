package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand creates the rossum command with all subcommands attached.
func NewRootCommand(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rossum",
		Short: "Rossum API CLI",
		Long: `A command-line interface for the Rossum document processing API.

It manages workspaces, queues, schemas, users, connectors, hooks and
annotations, and uploads and exports documents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return InitConfig()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.rossum/config.yml)")
	flags.String("profile", "", "profile to use (default is the current profile)")
	flags.String("url", "", "API URL")
	flags.String("username", "", "username")
	flags.String("password", "", "password")
	flags.String("token", "", "session token")
	flags.StringP("output", "o", OutputFormatTable, "output format (table, json, yaml)")
	flags.CountP("verbose", "v", "verbose output, repeat for more")
	flags.Bool("debug", false, "log HTTP requests and responses")

	for _, name := range []string{"config", "profile", "url", "username", "password", "token", "output", "verbose", "debug"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	cmd.AddCommand(NewVersionCommand(version, commit, date))
	cmd.AddCommand(NewConfigureCommand())
	cmd.AddCommand(NewPasswordCommand())
	cmd.AddCommand(NewWorkspaceCommand())
	cmd.AddCommand(NewQueueCommand())
	cmd.AddCommand(NewSchemaCommand())
	cmd.AddCommand(NewUserCommand())
	cmd.AddCommand(NewGroupCommand())
	cmd.AddCommand(NewConnectorCommand())
	cmd.AddCommand(NewHookCommand())
	cmd.AddCommand(NewAnnotationCommand())

	return cmd
}
