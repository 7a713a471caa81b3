package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/rossum/internal/constants"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// NewUserCommand creates the user command group.
func NewUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "user",
		Aliases: []string{"users"},
		Short:   "Manage users",
		Long:    "List and create users",
	}

	cmd.AddCommand(newUserListCommand())
	cmd.AddCommand(newUserCreateCommand())

	return cmd
}

func newUserListCommand() *cobra.Command {
	var (
		username   string
		activeOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long:  "List users with their groups and queues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := rossum.UserFilter{Username: username}
			if activeOnly {
				filter.IsActive = &activeOnly
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				users, err := client.ListUsers(ctx, filter, rossum.Groups.Sideload())
				if err != nil {
					return err
				}

				return renderRecords(cmd, users, []column{
					field("id"),
					field("username"),
					{Header: "groups", Value: func(record rossum.Record) string {
						return display(names(record.Records("groups")))
					}},
					refsColumn("queues"),
					field("is_active"),
				}, "No users found")
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "list only the user with this username")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "list only active users")

	return cmd
}

func names(records []rossum.Record) []any {
	out := make([]any, 0, len(records))
	for _, record := range records {
		out = append(out, record.String("name"))
	}

	return out
}

func newUserCreateCommand() *cobra.Command {
	var (
		queueIDs []int
		group    string
		password string
		locale   string
	)

	cmd := &cobra.Command{
		Use:   "create USERNAME",
		Short: "Create a user",
		Long: `Create a user in the organization of the current user.

A password is generated and printed when --user-password is not given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				generated, err := generateSecret()
				if err != nil {
					return err
				}

				password = generated
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				organization, err := client.GetOrganization(ctx, 0)
				if err != nil {
					return err
				}

				queues := make([]string, 0, len(queueIDs))
				for _, queueID := range queueIDs {
					queue, err := client.GetQueue(ctx, queueID)
					if err != nil {
						return err
					}

					queues = append(queues, queue.URL())
				}

				user, err := client.CreateUser(ctx, rossum.UserCreate{
					Username:     args[0],
					Organization: organization.URL(),
					Queues:       queues,
					Password:     password,
					Group:        group,
					Locale:       locale,
				})
				if err != nil {
					return err
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d, %s\n", user.ID(), password)

				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.IntSliceVarP(&queueIDs, "queue-id", "q", nil, "queues the user is assigned to, repeatable")
	flags.StringVarP(&group, "group", "g", rossum.DefaultUserGroup, "permission group (annotator, admin, manager, viewer)")
	flags.StringVar(&password, "user-password", "", "password of the new user")
	flags.StringVarP(&locale, "locale", "l", rossum.DefaultUserLocale, "UI locale (en, cs)")

	return cmd
}

// generateSecret returns a random URL safe string.
func generateSecret() (string, error) {
	buf := make([]byte, constants.GeneratedPasswordLength)

	_, err := rand.Read(buf)
	if err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
