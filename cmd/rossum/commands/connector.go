package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// NewConnectorCommand creates the connector command group.
func NewConnectorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "connector",
		Aliases: []string{"connectors"},
		Short:   "Manage connectors",
		Long:    "List and create connectors called back by queues",
	}

	cmd.AddCommand(newConnectorListCommand())
	cmd.AddCommand(newConnectorCreateCommand())

	return cmd
}

func newConnectorListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List connectors",
		Long:  "List all connectors with their queues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				connectors, err := client.ListConnectors(ctx)
				if err != nil {
					return err
				}

				return renderRecords(cmd, connectors, []column{
					field("id"),
					field("name"),
					field("service_url"),
					refsColumn("queues"),
					field("params"),
					field("asynchronous"),
				}, "No connectors found")
			})
		},
	}
}

func newConnectorCreateCommand() *cobra.Command {
	var (
		queueIDs     []int
		serviceURL   string
		authToken    string
		params       string
		asynchronous bool
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a connector",
		Long: `Create a connector. Without --queue-id it is attached to the only queue.

An authorization token is generated when --auth-token is not given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if authToken == "" {
				generated, err := generateSecret()
				if err != nil {
					return err
				}

				authToken = generated
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				queues, err := queueURLs(ctx, client, queueIDs)
				if err != nil {
					return err
				}

				connector, err := client.CreateConnector(ctx, rossum.ConnectorCreate{
					Name:               args[0],
					Queues:             queues,
					ServiceURL:         serviceURL,
					AuthorizationToken: authToken,
					Params:             params,
					Asynchronous:       asynchronous,
				})
				if err != nil {
					return err
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d, %s\n", connector.ID(), connector.String("authorization_token"))

				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.IntSliceVarP(&queueIDs, "queue-id", "q", nil, "queues the connector is attached to, repeatable")
	flags.StringVarP(&serviceURL, "service-url", "u", "", "URL of the connector endpoint")
	flags.StringVarP(&authToken, "auth-token", "t", "", "token sent to the connector to ensure authorization")
	flags.StringVar(&params, "params", "", "query params appended to the service URL")
	flags.BoolVarP(&asynchronous, "asynchronous", "a", true, "call the connector asynchronously")
	_ = cmd.MarkFlagRequired("service-url")

	return cmd
}

// queueURLs resolves queue IDs to Resource References. No IDs resolve to
// the only queue.
func queueURLs(ctx context.Context, client rossum.Client, ids []int) ([]string, error) {
	if len(ids) == 0 {
		queue, err := client.GetQueue(ctx, 0)
		if err != nil {
			return nil, err
		}

		return []string{queue.URL()}, nil
	}

	urls := make([]string, 0, len(ids))

	for _, id := range ids {
		queue, err := client.GetQueue(ctx, id)
		if err != nil {
			return nil, err
		}

		urls = append(urls, queue.URL())
	}

	return urls, nil
}
