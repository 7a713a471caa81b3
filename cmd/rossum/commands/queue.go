package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/rossum/internal/constants"
	"github.com/fivetwenty-io/rossum/internal/publish"
	"github.com/fivetwenty-io/rossum/pkg/rossum"
)

// NewQueueCommand creates the queue command group.
func NewQueueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "queue",
		Aliases: []string{"queues"},
		Short:   "Manage queues",
		Long:    "List, create and delete queues, upload documents into them and export their data",
	}

	cmd.AddCommand(newQueueListCommand())
	cmd.AddCommand(newQueueGetCommand())
	cmd.AddCommand(newQueueCreateCommand())
	cmd.AddCommand(newQueueDeleteCommand())
	cmd.AddCommand(newQueueUploadCommand())
	cmd.AddCommand(newQueueExportCommand())

	return cmd
}

func refColumn(name string) column {
	return column{Header: name, Value: func(record rossum.Record) string {
		return idFromURL(record.String(name))
	}}
}

func refsColumn(name string) column {
	return column{Header: name, Value: func(record rossum.Record) string { return idsOf(record[name]) }}
}

func queueColumns() []column {
	return []column{
		field("id"),
		field("name"),
		refColumn("workspace"),
		{Header: "inbox", Value: func(record rossum.Record) string {
			if inbox, ok := record.Record("inbox"); ok {
				return inbox.String("email")
			}

			return ""
		}},
		refColumn("schema"),
		refsColumn("users"),
		refsColumn("hooks"),
	}
}

func newQueueListCommand() *cobra.Command {
	var workspaceID int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queues",
		Long:  "List all queues with their workspace, inbox, schema, users and hooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				queues, err := client.ListQueues(ctx, rossum.QueueFilter{Workspace: workspaceID}, rossum.Inboxes.Sideload())
				if err != nil {
					return err
				}

				return renderRecords(cmd, queues, queueColumns(), "No queues found")
			})
		},
	}

	cmd.Flags().IntVarP(&workspaceID, "workspace-id", "w", 0, "list only queues of this workspace")

	return cmd
}

func newQueueGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [QUEUE_ID]",
		Short: "Get queue details",
		Long:  "Display a queue. The ID may be omitted when there is only one queue.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := optionalID(args)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				queue, err := client.GetQueue(ctx, id)
				if err != nil {
					return err
				}

				return renderRecord(cmd, queue)
			})
		},
	}
}

type queueCreateOptions struct {
	workspaceID int
	schemaFile  string
	emailPrefix string
	bounceEmail string
	connectorID int
	hookIDs     []int
	locale      string
	rirURL      string
	rirParams   string
}

func newQueueCreateCommand() *cobra.Command {
	opts := &queueCreateOptions{}

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a queue",
		Long: `Create a queue with a new schema read from a JSON or YAML file.

An inbox is created for the queue when --email-prefix is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readSchemaContent(opts.schemaFile)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				return runQueueCreate(ctx, cmd, client, args[0], content, opts)
			})
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.workspaceID, "workspace-id", "w", 0, "workspace ID (may be omitted when there is only one)")
	flags.StringVarP(&opts.schemaFile, "schema-content-file", "s", "", "schema file, JSON or YAML")
	flags.StringVar(&opts.emailPrefix, "email-prefix", "", "if not specified, documents cannot be imported via email")
	flags.StringVar(&opts.bounceEmail, "bounce-email", "", "unprocessable documents will be bounced to this email")
	flags.IntVar(&opts.connectorID, "connector-id", 0, "if not specified, queue will not call back a connector")
	flags.IntSliceVar(&opts.hookIDs, "hook-id", nil, "hooks notified by the queue, repeatable")
	flags.StringVar(&opts.locale, "locale", "", "locale used for the queue's documents")
	flags.StringVar(&opts.rirURL, "rir-url", rossum.DefaultRIRURL, "extraction engine URL")
	flags.StringVar(&opts.rirParams, "rir-params", "", "extraction engine parameters")
	_ = cmd.MarkFlagRequired("schema-content-file")

	return cmd
}

func runQueueCreate(
	ctx context.Context,
	cmd *cobra.Command,
	client rossum.Client,
	name string,
	content []any,
	opts *queueCreateOptions,
) error {
	workspace, err := client.GetWorkspace(ctx, opts.workspaceID)
	if err != nil {
		return err
	}

	schema, err := client.CreateSchema(ctx, name+" schema", content)
	if err != nil {
		return err
	}

	req := rossum.QueueCreate{
		Name:      name,
		Workspace: workspace.URL(),
		Schema:    schema.URL(),
		Locale:    opts.locale,
		RIRURL:    opts.rirURL,
		RIRParams: opts.rirParams,
	}

	if opts.connectorID != 0 {
		req.Connector = objectURL(client, rossum.Connectors, opts.connectorID)
	}

	for _, hookID := range opts.hookIDs {
		req.Hooks = append(req.Hooks, objectURL(client, rossum.Hooks, hookID))
	}

	queue, err := client.CreateQueue(ctx, req)
	if err != nil {
		return err
	}

	email := ""

	if opts.emailPrefix != "" {
		inbox, err := client.CreateInbox(ctx, rossum.InboxCreate{
			Name:        name + " inbox",
			EmailPrefix: opts.emailPrefix,
			BounceEmail: opts.bounceEmail,
			Queue:       queue.URL(),
		})
		if err != nil {
			return err
		}

		var created rossum.Inbox

		err = rossum.Decode(inbox, &created)
		if err != nil {
			return err
		}

		email = created.Email
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d, %s\n", queue.ID(), email)

	return nil
}

// objectURL builds the Resource Reference of an object from its ID.
func objectURL(client rossum.Client, object rossum.APIObject, id int) string {
	return fmt.Sprintf("%s/%s/%d", client.BaseURL(), object.Plural, id)
}

// readSchemaContent reads a schema content list. JSON files parse as YAML.
func readSchemaContent(path string) ([]any, error) {
	data, err := afero.ReadFile(appFs, path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	var content []any

	err = yaml.Unmarshal(data, &content)
	if err != nil {
		return nil, fmt.Errorf("parsing schema file %s: %w", path, err)
	}

	return content, nil
}

func newQueueDeleteCommand() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete QUEUE_ID",
		Short: "Delete a queue",
		Long:  "Delete a queue together with all its documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			err = confirm(cmd, "This will delete ALL DOCUMENTS in the queue. Do you want to continue?", assumeYes)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				err := deleteQueueDocuments(ctx, cmd, client, []int{id})
				if err != nil {
					return err
				}

				return client.Delete(ctx,
					[]rossum.DeleteTarget{{ID: args[0], URL: objectURL(client, rossum.Queues, id)}},
					rossum.DeleteOptions{Item: "queue", Verbose: verbosity(), Out: cmd.OutOrStdout()})
			})
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

type queueUploadOptions struct {
	values   []string
	metadata []string
	wait     bool
	interval time.Duration
	retries  int
}

func newQueueUploadCommand() *cobra.Command {
	opts := &queueUploadOptions{}

	cmd := &cobra.Command{
		Use:   "upload QUEUE_ID FILE...",
		Short: "Upload documents",
		Long:  "Upload documents into a queue, optionally waiting until they are processed",
		Args:  cobra.MinimumNArgs(2), //nolint:mnd // queue and at least one file
		RunE: func(cmd *cobra.Command, args []string) error {
			queueID, err := parseID(args[0])
			if err != nil {
				return err
			}

			values, err := parseKeyValues(opts.values)
			if err != nil {
				return err
			}

			metadata, err := parseKeyValues(opts.metadata)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				for _, path := range args[1:] {
					content, err := afero.ReadFile(appFs, path)
					if err != nil {
						return fmt.Errorf("reading %s: %w", path, err)
					}

					err = uploadOne(ctx, cmd, client, rossum.Upload{
						Queue:     queueID,
						FileBytes: content,
						Filename:  filepath.Base(path),
						Values:    values,
						Metadata:  metadata,
					}, opts)
					if err != nil {
						return err
					}
				}

				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&opts.values, "values", nil, "value KEY=VALUE sent with the document, repeatable")
	flags.StringArrayVar(&opts.metadata, "metadata", nil, "metadata entry KEY=VALUE, repeatable")
	flags.BoolVar(&opts.wait, "wait", false, "wait until the documents are imported")
	flags.DurationVar(&opts.interval, "interval", rossum.DefaultPollInterval, "polling interval with --wait")
	flags.IntVar(&opts.retries, "retries", rossum.DefaultPollMaxRetries, "maximum number of polls with --wait")

	return cmd
}

func uploadOne(ctx context.Context, cmd *cobra.Command, client rossum.Client, upload rossum.Upload, opts *queueUploadOptions) error {
	result, err := client.UploadDocument(ctx, upload)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	name := upload.Filename

	annotationID := uploadedAnnotation(result)
	if !opts.wait {
		_, _ = fmt.Fprintf(out, "%s: %d\n", name, annotationID)

		return nil
	}

	if annotationID == 0 {
		return fmt.Errorf("%w: %s", ErrNoAnnotationFound, name)
	}

	_, _ = fmt.Fprintf(out, "Processing %s", name)

	annotation, err := client.PollAnnotation(ctx, annotationID, imported, rossum.PollConfig{
		Interval:   opts.interval,
		MaxRetries: opts.retries,
		Observer: func(rossum.Record) {
			_, _ = fmt.Fprint(out, ".")
		},
	})

	if err != nil {
		_, _ = fmt.Fprintln(out)

		return err
	}

	_, _ = fmt.Fprintln(out, " finished.")

	_, _ = fmt.Fprintf(out, "%s: %d %s\n", name, annotation.ID(), annotation.Status())

	return nil
}

// imported holds once the document left the importing state.
func imported(annotation rossum.Record) bool {
	return annotation.Status() != rossum.AnnotationStatusImporting
}

// uploadedAnnotation returns the ID of the annotation created by an upload.
func uploadedAnnotation(result rossum.Record) int {
	for _, item := range result.Records("results") {
		if ref := item.String("annotation"); ref != "" {
			id, err := strconv.Atoi(idFromURL(ref))
			if err == nil {
				return id
			}
		}
	}

	return 0
}

type queueExportOptions struct {
	annotationIDs []int
	format        string
	outputFile    string
	natsURL       string
	natsSubject   string
}

func newQueueExportCommand() *cobra.Command {
	opts := &queueExportOptions{}

	cmd := &cobra.Command{
		Use:   "export QUEUE_ID",
		Short: "Export annotation data",
		Long: `Export extracted data of annotations in a queue.

The data is written to standard output, to --output-file, or published to a
NATS subject with --nats-url and --nats-subject.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queueID, err := parseID(args[0])
			if err != nil {
				return err
			}

			err = opts.validate()
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client rossum.Client) error {
				data, err := client.ExportData(ctx, queueID, opts.annotationIDs, opts.format)
				if err != nil {
					return err
				}

				return deliverExport(ctx, cmd, publish.Export{
					Queue:       queueID,
					Format:      opts.format,
					Annotations: opts.annotationIDs,
					Data:        data,
				}, opts)
			})
		},
	}

	flags := cmd.Flags()
	flags.IntSliceVar(&opts.annotationIDs, "annotation-id", nil, "annotation to export, repeatable")
	flags.StringVarP(&opts.format, "format", "f", constants.ExportFormatCSV, "export format (csv, xml, json)")
	flags.StringVarP(&opts.outputFile, "output-file", "O", "", "write the export to this file")
	flags.StringVar(&opts.natsURL, "nats-url", "", "publish the export to this NATS server")
	flags.StringVar(&opts.natsSubject, "nats-subject", "", "NATS subject the export is published to")
	_ = cmd.MarkFlagRequired("annotation-id")

	return cmd
}

func (o *queueExportOptions) validate() error {
	switch strings.ToLower(o.format) {
	case constants.ExportFormatCSV, constants.ExportFormatXML, constants.ExportFormatJSON:
		o.format = strings.ToLower(o.format)
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidExportFormat, o.format)
	}

	if o.natsURL != "" && o.natsSubject == "" {
		return constants.ErrNoSubjectForNATS
	}

	return nil
}

// newPublisher connects export publishing. Tests replace it.
var newPublisher = func(url, subject string) (exportPublisher, error) {
	return publish.Connect(url, subject)
}

type exportPublisher interface {
	Publish(ctx context.Context, export publish.Export) error
	Close()
}

func deliverExport(ctx context.Context, cmd *cobra.Command, export publish.Export, opts *queueExportOptions) error {
	switch {
	case opts.natsURL != "":
		publisher, err := newPublisher(opts.natsURL, opts.natsSubject)
		if err != nil {
			return err
		}
		defer publisher.Close()

		err = publisher.Publish(ctx, export)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Published %d bytes to %s.\n", len(export.Data), opts.natsSubject)

		return nil
	case opts.outputFile != "":
		err := afero.WriteFile(appFs, opts.outputFile, export.Data, constants.ConfigFilePerm)
		if err != nil {
			return fmt.Errorf("writing export: %w", err)
		}

		return nil
	default:
		_, err := cmd.OutOrStdout().Write(export.Data)
		if err != nil {
			return fmt.Errorf("writing export: %w", err)
		}

		return nil
	}
}
