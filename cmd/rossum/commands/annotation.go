package commands

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// NewAnnotationCommand creates the annotation command group.
func NewAnnotationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "annotation",
		Aliases: []string{"annotations"},
		Short:   "Manage annotations",
		Long:    "List, inspect, wait for and delete annotations",
	}

	cmd.AddCommand(newAnnotationListCommand())
	cmd.AddCommand(newAnnotationGetCommand())
	cmd.AddCommand(newAnnotationWaitCommand())
	cmd.AddCommand(newAnnotationDeleteCommand())

	return cmd
}

func annotationColumns() []column {
	return []column{
		field("id"),
		field("status"),
		refColumn("queue"),
		refColumn("document"),
		field("modified_at"),
	}
}

func newAnnotationListCommand() *cobra.Command {
	var (
		queueID  int
		statuses []string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List annotations",
		Long:  "List annotations of a queue, the only queue when --queue-id is omitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				if queueID == 0 {
					queue, err := client.GetQueue(ctx, 0)
					if err != nil {
						return err
					}

					queueID = queue.ID()
				}

				annotations, err := client.ListAnnotations(ctx, rossum.AnnotationFilter{Queue: queueID, Status: statuses})
				if err != nil {
					return err
				}

				return renderRecords(cmd, annotations, annotationColumns(), "No annotations found")
			})
		},
	}

	cmd.Flags().IntVarP(&queueID, "queue-id", "q", 0, "queue to list annotations of")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "only annotations in these states, repeatable")

	return cmd
}

func newAnnotationGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ANNOTATION_ID",
		Short: "Show an annotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				annotation, err := client.GetAnnotation(ctx, id)
				if err != nil {
					return err
				}

				return renderRecord(cmd, annotation)
			})
		},
	}
}

func newAnnotationWaitCommand() *cobra.Command {
	var (
		statuses []string
		interval time.Duration
		retries  int
	)

	cmd := &cobra.Command{
		Use:   "wait ANNOTATION_ID",
		Short: "Wait for an annotation",
		Long: `Poll an annotation until it is imported, or until it reaches one of the
states given by --status.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			check := imported
			if len(statuses) > 0 {
				check = func(annotation rossum.Record) bool {
					return slices.Contains(statuses, annotation.Status())
				}
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				annotation, err := client.PollAnnotation(ctx, id, check, rossum.PollConfig{
					Interval:   interval,
					MaxRetries: retries,
				})
				if err != nil {
					return err
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", annotation.ID(), annotation.Status())

				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "states to wait for, repeatable")
	cmd.Flags().DurationVar(&interval, "interval", rossum.DefaultPollInterval, "polling interval")
	cmd.Flags().IntVar(&retries, "retries", rossum.DefaultPollMaxRetries, "maximum number of polls")

	return cmd
}

func newAnnotationDeleteCommand() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete ANNOTATION_ID...",
		Short: "Delete annotations",
		Long:  "Delete annotations. Failures are reported and the remaining annotations are still deleted.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))

			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}

				ids = append(ids, id)
			}

			err := confirm(cmd, fmt.Sprintf("Delete %d annotation(s)?", len(ids)), assumeYes)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				targets := make([]rossum.DeleteTarget, 0, len(ids))
				for i, id := range ids {
					targets = append(targets, rossum.DeleteTarget{ID: args[i], URL: objectURL(client, rossum.Annotations, id)})
				}

				return client.Delete(ctx, targets, rossum.DeleteOptions{
					Item:    rossum.DefaultDeleteItemLabel,
					Verbose: verbosity(),
					Out:     cmd.OutOrStdout(),
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}
