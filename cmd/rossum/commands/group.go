package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// NewGroupCommand creates the group command group.
func NewGroupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "group",
		Aliases: []string{"groups"},
		Short:   "Inspect permission groups",
		Long:    "List the permission groups users can be assigned to",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List groups",
		Long:  "List all permission groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				groups, _, err := client.FetchAll(ctx, rossum.Groups.Plural, nil, rossum.ListOptions{})
				if err != nil {
					return err
				}

				return renderRecords(cmd, groups, []column{field("id"), field("name")}, "No groups found")
			})
		},
	})

	return cmd
}
