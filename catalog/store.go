package catalog

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/esengine/nova-ecs-editor/component"
	"github.com/esengine/nova-ecs-editor/errors"
	"github.com/esengine/nova-ecs-editor/export"
	"github.com/esengine/nova-ecs-editor/natsclient"
)

// DefaultBucket is the KV bucket used when none is configured
const DefaultBucket = "nova_editor_components"

// ErrNotFound is returned by Get for an unknown key
var ErrNotFound = stderrors.New("component not in catalog")

// SyncResult counts the changes made by Sync
type SyncResult struct {
	Written int `json:"written"`
	Deleted int `json:"deleted"`
}

// Store persists registrations in a KV bucket
type Store struct {
	bucket jetstream.KeyValue
}

// Open opens or creates the bucket through client
func Open(ctx context.Context, client *natsclient.Client, bucket string) (*Store, error) {
	if client == nil {
		return nil, errors.WrapInvalid(errors.ErrNoConnection, "catalog", "Open", "nats client check")
	}
	if bucket == "" {
		bucket = DefaultBucket
	}
	kv, err := client.KeyValueBucket(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "Editor component catalog",
		History:     5,
	})
	if err != nil {
		return nil, errors.WrapTransient(err, "catalog", "Open", "open KV bucket")
	}
	return NewStore(kv), nil
}

// NewStore wraps an opened bucket
func NewStore(bucket jetstream.KeyValue) *Store {
	return &Store{bucket: bucket}
}

// Key maps a component name onto a valid KV key
func Key(name string) string {
	if name == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '=', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}

// EntryKey is the KV key of a registration: its import path qualified type
// name followed by its type id, so types sharing a name never share a key
func EntryKey(reg component.Registration) string {
	name := reg.Name
	if reg.Type != nil {
		name = component.QualifiedName(reg.Type)
	}
	return Key(name) + "." + strconv.FormatUint(uint64(reg.ID), 10)
}

// Put writes one registration
func (s *Store) Put(ctx context.Context, reg component.Registration) error {
	data, err := json.Marshal(export.FromRegistration(reg))
	if err != nil {
		return errors.WrapFatal(err, "catalog", "Put", "marshal component")
	}
	if _, err := s.bucket.Put(ctx, EntryKey(reg), data); err != nil {
		return errors.WrapTransient(err, "catalog", "Put", "put to KV")
	}
	return nil
}

// Get reads the component stored under key
func (s *Store) Get(ctx context.Context, key string) (export.Component, error) {
	entry, err := s.bucket.Get(ctx, key)
	if err != nil {
		if stderrors.Is(err, jetstream.ErrKeyNotFound) {
			return export.Component{}, errors.WrapInvalid(fmt.Errorf("%w: %s", ErrNotFound, key),
				"catalog", "Get", "lookup")
		}
		return export.Component{}, errors.WrapTransient(err, "catalog", "Get", "get from KV")
	}

	var c export.Component
	if err := json.Unmarshal(entry.Value(), &c); err != nil {
		return export.Component{}, errors.WrapFatal(err, "catalog", "Get", "unmarshal component")
	}
	return c, nil
}

// Keys lists the stored keys, sorted
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.bucket.Keys(ctx)
	if err != nil {
		if stderrors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, errors.WrapTransient(err, "catalog", "Keys", "list KV keys")
	}
	sort.Strings(keys)
	return keys, nil
}

// List reads every stored component, ordered by type id
func (s *Store) List(ctx context.Context) ([]export.Component, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]export.Component, 0, len(keys))
	for _, key := range keys {
		c, err := s.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Sync makes the bucket hold exactly the registry's current registrations
func (s *Store) Sync(ctx context.Context, registry *component.Registry) (SyncResult, error) {
	var result SyncResult
	if registry == nil {
		return result, errors.WrapFatal(errors.ErrNilRegistry, "catalog", "Sync", "registry check")
	}

	live := make(map[string]struct{})
	for _, reg := range registry.GetAll() {
		if err := s.Put(ctx, reg); err != nil {
			return result, err
		}
		live[EntryKey(reg)] = struct{}{}
		result.Written++
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		return result, err
	}
	for _, key := range keys {
		if _, ok := live[key]; ok {
			continue
		}
		if err := s.bucket.Delete(ctx, key); err != nil {
			return result, errors.WrapTransient(err, "catalog", "Sync", "delete stale key "+key)
		}
		result.Deleted++
	}
	return result, nil
}
