// Package rossum provides types, interfaces, and helpers for working with the
// Rossum document-processing API.
//
// # Overview
//
// The rossum package defines the open Record type returned by every
// operation, the typed views Records can be decoded into (Queue, Hook, User
// and friends), the Client interface and the sideloading descriptors. A
// concrete implementation is provided by the rossumclient package, which wires
// configuration, transport, retries and the session.
//
// Getting a client
//
//	ctx := context.Background()
//	cli, err := rossumclient.New(ctx, &rossum.Config{
//	  URL:      "https://api.elis.rossum.ai",
//	  Username: "me@example.com",
//	  Password: "secret",
//	})
//	if err != nil { log.Fatal(err) }
//	defer cli.Close(ctx)
//
// # Sideloading
//
// List operations accept sideloads, which fetch related objects in bulk and
// replace references in the returned records by the objects themselves:
//
//	queues, err := cli.ListQueues(ctx, rossum.QueueFilter{}, rossum.Workspaces.Sideload())
//	ws, _ := queues[0].Record("workspace")
//
// Annotation content is sideloaded with the Content descriptor, restricted to
// the schema IDs of interest:
//
//	annotations, err := cli.ListAnnotations(ctx, rossum.AnnotationFilter{
//	  Queue:     12,
//	  Sideloads: []rossum.Sideload{rossum.Content.WithSchemaIDs("invoice_id")},
//	})
//
// # Errors
//
// Unexpected statuses are reported as *APIError, undecodable bodies as
// *MalformedResponseError and rejected input as *ValidationError. A 401 on
// login is ErrInvalidCredentials. Connection failures are retried and, once
// retries are spent, returned unchanged.
package rossum
