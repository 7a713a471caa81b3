package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// NewSchemaCommand creates the schema command group.
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schema",
		Aliases: []string{"schemas"},
		Short:   "Manage schemas",
		Long:    "List and create schemas",
	}

	cmd.AddCommand(newSchemaListCommand())
	cmd.AddCommand(newSchemaCreateCommand())

	return cmd
}

func newSchemaListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List schemas",
		Long:  "List all schemas with the queues using them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				schemas, err := client.ListSchemas(ctx)
				if err != nil {
					return err
				}

				return renderRecords(cmd, schemas, []column{field("id"), field("name"), refsColumn("queues")}, "No schemas found")
			})
		},
	}
}

func newSchemaCreateCommand() *cobra.Command {
	var schemaFile string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a schema",
		Long:  "Create a schema from a JSON or YAML content file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readSchemaContent(schemaFile)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				schema, err := client.CreateSchema(ctx, args[0], content)
				if err != nil {
					return err
				}

				_, _ = fmt.Fprintln(cmd.OutOrStdout(), schema.ID())

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&schemaFile, "schema-content-file", "s", "", "schema file, JSON or YAML")
	_ = cmd.MarkFlagRequired("schema-content-file")

	return cmd
}
