package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// NewWorkspaceCommand creates the workspace command group.
func NewWorkspaceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"workspaces", "ws"},
		Short:   "Manage workspaces",
		Long:    "List, get, create and delete workspaces",
	}

	cmd.AddCommand(newWorkspaceListCommand())
	cmd.AddCommand(newWorkspaceGetCommand())
	cmd.AddCommand(newWorkspaceCreateCommand())
	cmd.AddCommand(newWorkspaceDeleteCommand())

	return cmd
}

func workspaceColumns() []column {
	return []column{
		field("id"),
		field("name"),
		{Header: "queues", Value: func(record rossum.Record) string { return idsOf(record["queues"]) }},
	}
}

func newWorkspaceListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workspaces",
		Long:  "List all workspaces with their queues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				workspaces, err := client.ListWorkspaces(ctx, 0, rossum.Queues.Sideload())
				if err != nil {
					return err
				}

				return renderRecords(cmd, workspaces, workspaceColumns(), "No workspaces found")
			})
		},
	}
}

func newWorkspaceGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [WORKSPACE_ID]",
		Short: "Get workspace details",
		Long:  "Display a workspace. The ID may be omitted when there is only one workspace.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := optionalID(args)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				workspace, err := client.GetWorkspace(ctx, id, rossum.Queues.Sideload())
				if err != nil {
					return err
				}

				return renderRecord(cmd, workspace)
			})
		},
	}
}

func newWorkspaceCreateCommand() *cobra.Command {
	var (
		organizationID int
		metadata       []string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a workspace",
		Long:  "Create a workspace in the organization of the current user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseKeyValues(metadata)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				organization, err := client.GetOrganization(ctx, organizationID)
				if err != nil {
					return err
				}

				workspace, err := client.CreateWorkspace(ctx, rossum.WorkspaceCreate{
					Name:         args[0],
					Organization: organization.URL(),
					Metadata:     values,
				})
				if err != nil {
					return err
				}

				_, _ = fmt.Fprintln(cmd.OutOrStdout(), workspace.ID())

				return nil
			})
		},
	}

	cmd.Flags().IntVar(&organizationID, "organization-id", 0, "organization ID (default is the organization of the current user)")
	cmd.Flags().StringArrayVar(&metadata, "metadata", nil, "metadata entry KEY=VALUE, repeatable")

	return cmd
}

func newWorkspaceDeleteCommand() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete WORKSPACE_ID",
		Short: "Delete a workspace",
		Long:  "Delete a workspace together with all documents in its queues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			err = confirm(cmd, "This will delete ALL DOCUMENTS in the workspace. Do you want to continue?", assumeYes)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				workspace, err := client.GetWorkspace(ctx, id)
				if err != nil {
					return err
				}

				queueIDs := make([]int, 0)
				for _, ref := range workspace.Strings("queues") {
					queueID, err := parseID(idFromURL(ref))
					if err != nil {
						return err
					}

					queueIDs = append(queueIDs, queueID)
				}

				err = deleteQueueDocuments(ctx, cmd, client, queueIDs)
				if err != nil {
					return err
				}

				return client.Delete(ctx, []rossum.DeleteTarget{{ID: strconv.Itoa(id), URL: workspace.URL()}},
					rossum.DeleteOptions{Item: "workspace", Verbose: verbosity(), Out: cmd.OutOrStdout()})
			})
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

// deleteQueueDocuments deletes the documents of every annotation in queues.
func deleteQueueDocuments(ctx context.Context, cmd *cobra.Command, client rossum.Client, queueIDs []int) error {
	var targets []rossum.DeleteTarget

	for _, queueID := range queueIDs {
		annotations, err := client.ListAnnotations(ctx, rossum.AnnotationFilter{Queue: queueID})
		if err != nil {
			return err
		}

		for _, annotation := range annotations {
			document := annotation.String("document")
			if document == "" {
				continue
			}

			targets = append(targets, rossum.DeleteTarget{ID: idFromURL(document), URL: document})
		}
	}

	return client.Delete(ctx, targets, rossum.DeleteOptions{Item: "document", Verbose: verbosity(), Out: cmd.OutOrStdout()})
}

// parseID parses a positive object ID.
func parseID(value string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, value)
	}

	return id, nil
}

// optionalID parses the first argument, 0 when there is none.
func optionalID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}

	return parseID(args[0])
}
