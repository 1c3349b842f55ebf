// Package catalog mirrors a component registry into a NATS JetStream
// key-value bucket, so editors on other machines can read the component
// catalog without linking the component types.
//
// Each registration is stored as its JSON snapshot form under a key derived
// from its qualified type name and type id. Sync writes every current
// registration and deletes keys whose component is no longer registered.
package catalog
