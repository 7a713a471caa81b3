// Package rossumclient provides the primary entry point for constructing a
// Rossum API client that implements the rossum.Client interface.
//
// It resolves the service URL and wires the HTTP transport, the retry policy
// and the session on top of the interfaces and types defined in the rossum
// package. Most applications import rossumclient to build a client and use
// the returned rossum.Client for everything else.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/rossum/pkg/rossum"
//	  "github.com/fivetwenty-io/rossum/pkg/rossumclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Log in with username and password on the first request.
//	  cli, err := rossumclient.New(&rossum.Config{
//	    URL:      "https://api.elis.rossum.ai",
//	    Username: "user@example.com",
//	    Password: "pass",
//	  })
//	  if err != nil { log.Fatal(err) }
//	  defer cli.Close(ctx)
//
//	  queues, err := cli.ListQueues(ctx, rossum.QueueFilter{})
//	  if err != nil { log.Fatal(err) }
//	  _ = queues
//	}
//
// # Sessions
//
// A client logs in lazily and keeps the token until Close, which logs out.
// Run wraps a function so that the session is closed on every exit path:
//
//	err := rossumclient.Run(ctx, config, func(cli rossum.Client) error {
//	  _, err := cli.GetQueue(ctx, 0)
//	  return err
//	})
//
// # Helpers
//
// NewWithToken, NewWithPassword and NewWithBasicAuth wrap New with the
// matching configuration.
package rossumclient
