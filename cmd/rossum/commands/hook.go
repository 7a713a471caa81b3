package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

const configFlagPrefix = "config-"

// NewHookCommand creates the hook command group.
func NewHookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hook",
		Aliases: []string{"hooks"},
		Short:   "Manage hooks",
		Long:    "List, create, change and delete webhooks and serverless functions",
	}

	cmd.AddCommand(newHookListCommand())
	cmd.AddCommand(newHookCreateCommand())
	cmd.AddCommand(newHookChangeCommand())
	cmd.AddCommand(newHookDeleteCommand())

	return cmd
}

func newHookListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List hooks",
		Long:  "List all hooks with their events, queues and configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				hooks, err := client.ListHooks(ctx, nil, rossum.Queues.Sideload())
				if err != nil {
					return err
				}

				return renderRecords(cmd, hooks, hookColumns(), "No hooks found")
			})
		},
	}
}

func hookColumns() []column {
	columns := []column{
		field("id"),
		field("name"),
		field("type"),
		field("events"),
		refsColumn("queues"),
		field("active"),
		field("sideload"),
	}

	for _, key := range []string{"url", "insecure_ssl", "secret"} {
		key := key
		columns = append(columns, column{Header: key, Value: func(record rossum.Record) string {
			config, _ := record.Record("config")

			return display(config[key])
		}})
	}

	return columns
}

// addHookFlags registers the flags shared by create and change. Every
// --config-* flag becomes a key of the hook's config.
func addHookFlags(flags *pflag.FlagSet) {
	flags.IntSliceP("queue-id", "q", nil, "queues the hook is associated with, repeatable")
	flags.StringP("hook-type", "t", "", "hook type (webhook, function)")
	flags.StringSliceP("events", "e", nil, "events the hook is notified about, repeatable")
	flags.StringSliceP("sideload", "s", nil, "related objects included in the hook request, repeatable")
	flags.Bool("active", true, "whether the hook is notified")
	flags.String("config-url", "", "URL endpoint where the message from the hook should be pushed")
	flags.String("config-secret", "", "secret key for authorization of payloads")
	flags.Bool("config-insecure-ssl", false, "disable SSL certificate verification (use only for testing purposes)")
	flags.String("config-code", "", "path to the file with the source code to be executed")
	flags.String("config-runtime", "", "runtime used to execute code")
}

// hookConfig collects the --config-* flags that were set. The code flag
// names a file whose content is sent.
func hookConfig(flags *pflag.FlagSet) (map[string]any, error) {
	config := map[string]any{}

	var err error

	flags.Visit(func(flag *pflag.Flag) {
		if err != nil || !strings.HasPrefix(flag.Name, configFlagPrefix) {
			return
		}

		key := strcase.ToSnake(strings.TrimPrefix(flag.Name, configFlagPrefix))

		switch flag.Value.Type() {
		case "bool":
			config[key], err = strconv.ParseBool(flag.Value.String())
		default:
			config[key] = flag.Value.String()
		}
	})

	if err != nil {
		return nil, fmt.Errorf("reading hook config: %w", err)
	}

	if path, ok := config["code"].(string); ok {
		code, err := afero.ReadFile(appFs, path)
		if err != nil {
			return nil, fmt.Errorf("reading hook code: %w", err)
		}

		config["code"] = string(code)
	}

	return config, nil
}

func newHookCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a hook",
		Long: `Create a hook. Without --queue-id it is associated with the only queue.

Webhooks need --config-url, functions need --config-code and --config-runtime.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			config, err := hookConfig(flags)
			if err != nil {
				return err
			}

			queueIDs, _ := flags.GetIntSlice("queue-id")
			hookType, _ := flags.GetString("hook-type")
			events, _ := flags.GetStringSlice("events")
			sideload, _ := flags.GetStringSlice("sideload")
			active, _ := flags.GetBool("active")

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				queues, err := queueURLs(ctx, client, queueIDs)
				if err != nil {
					return err
				}

				hook, err := client.CreateHook(ctx, rossum.HookCreate{
					Name:     args[0],
					Type:     hookType,
					Queues:   queues,
					Active:   active,
					Events:   events,
					Sideload: sideload,
					Config:   config,
				})
				if err != nil {
					return err
				}

				summary, err := hookSummary(hook)
				if err != nil {
					return err
				}

				_, _ = fmt.Fprintln(cmd.OutOrStdout(), summary)

				return nil
			})
		},
	}

	addHookFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("hook-type")
	_ = cmd.MarkFlagRequired("events")

	return cmd
}

// hookSummary lists the created hook's fields and its config values except
// code, runtime and insecure_ssl.
func hookSummary(record rossum.Record) (string, error) {
	var hook rossum.Hook

	err := rossum.Decode(record, &hook)
	if err != nil {
		return "", err
	}

	fields := []string{
		strconv.Itoa(hook.ID),
		hook.Name,
		strings.Join(hook.Queues, ", "),
		strings.Join(hook.Events, ", "),
		strings.Join(hook.Sideload, ", "),
	}

	keys := make([]string, 0, len(hook.Config))

	for key := range hook.Config {
		switch key {
		case "code", "runtime", "insecure_ssl":
			continue
		}

		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		fields = append(fields, display(hook.Config[key]))
	}

	return strings.Join(fields, ", "), nil
}

func newHookChangeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "change HOOK_ID",
		Short: "Update a hook",
		Long:  "Update the given fields of a hook. Nothing is sent when no field is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()

			config, err := hookConfig(flags)
			if err != nil {
				return err
			}

			name, _ := flags.GetString("name")

			return runHookChange(cmd, id, name, config)
		},
	}

	addHookFlags(cmd.Flags())
	cmd.Flags().StringP("name", "n", "", "new name of the hook")

	return cmd
}

func runHookChange(cmd *cobra.Command, id int, name string, config map[string]any) error {
	flags := cmd.Flags()
	changes := rossum.Record{}

	if name != "" {
		changes["name"] = name
	}

	if flags.Changed("hook-type") {
		changes["type"], _ = flags.GetString("hook-type")
	}

	if flags.Changed("active") {
		changes["active"], _ = flags.GetBool("active")
	}

	if flags.Changed("events") {
		changes["events"], _ = flags.GetStringSlice("events")
	}

	if flags.Changed("sideload") {
		changes["sideload"], _ = flags.GetStringSlice("sideload")
	}

	if len(config) > 0 {
		changes["config"] = config
	}

	queueIDs, _ := flags.GetIntSlice("queue-id")
	if len(changes) == 0 && len(queueIDs) == 0 {
		return nil
	}

	return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
		if len(queueIDs) > 0 {
			queues, err := queueURLs(ctx, client, queueIDs)
			if err != nil {
				return err
			}

			changes["queues"] = queues
		}

		_, err := client.UpdateHook(ctx, id, changes)

		return err
	})
}

func newHookDeleteCommand() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete HOOK_ID",
		Short: "Delete a hook",
		Long:  "Delete a hook deployed on queues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			err = confirm(cmd, "This will delete the hook deployed on the queue. Do you want to continue?", assumeYes)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				return client.Delete(ctx,
					[]rossum.DeleteTarget{{ID: args[0], URL: objectURL(client, rossum.Hooks, id)}},
					rossum.DeleteOptions{Item: "hook", Verbose: verbosity(), Out: cmd.OutOrStdout()})
			})
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}
