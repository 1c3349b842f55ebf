// Package natsclient manages the NATS connection of the editor service.
//
// Client wraps a *nats.Conn with connection status tracking, slog logging of
// disconnects and reconnects, and a small circuit breaker that refuses
// further connection attempts after repeated failures:
//
//	client, err := natsclient.NewClient(url,
//		natsclient.WithName("nova-editor"),
//		natsclient.WithTimeout(5*time.Second),
//	)
//	if err := client.Connect(ctx); err != nil {
//		// transient, or ErrCircuitOpen
//	}
//	defer client.Close(ctx)
//
// KeyValueBucket opens a JetStream KV bucket, creating it on first use, for
// the component catalog mirror. NewTestClient starts a throwaway NATS server
// in a container for integration tests.
package natsclient
