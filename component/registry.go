package component

import (
	"cmp"
	"context"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"github.com/esengine/nova-ecs-editor/metadata"
	"github.com/esengine/nova-ecs-editor/metric"
)

// Registration is the query-ready view of one registered component type.
// It is a snapshot taken when Register ran; later declarations do not
// change it until the type is registered again.
type Registration struct {
	Type       reflect.Type                 `json:"-"`
	ID         metadata.TypeID              `json:"id"`
	Name       string                       `json:"name"`
	Metadata   metadata.ComponentDescriptor `json:"metadata"`
	Properties metadata.PropertyMap         `json:"properties"`
}

func (r *Registration) clone() Registration {
	out := *r
	out.Metadata = r.Metadata.Clone()
	return out
}

// Statistics summarises the registry contents.
// CategorizedComponents only counts components with an explicit category;
// GetComponentsByCategory is the helper that files the rest under
// metadata.DefaultComponentCategory.
type Statistics struct {
	TotalComponents       int            `json:"totalComponents" yaml:"totalComponents"`
	AddableComponents     int            `json:"addableComponents" yaml:"addableComponents"`
	CategorizedComponents map[string]int `json:"categorizedComponents" yaml:"categorizedComponents"`
}

// Option configures a Registry
type Option func(*Registry)

// WithLogger sets the logger used for registration events
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics enables prometheus accounting of registrations
func WithMetrics(metrics *metric.Metrics) Option {
	return func(r *Registry) {
		r.metrics = metrics
	}
}

// WithPublisher sets a publisher notified after every successful registration
func WithPublisher(publisher EventPublisher) Option {
	return func(r *Registry) {
		r.publisher = publisher
	}
}

// Registry holds the registrations an editor session renders from.
// It reads declarations from a metadata.Store and is safe for concurrent use.
type Registry struct {
	store         *metadata.Store
	registrations map[metadata.TypeID]*Registration
	order         []metadata.TypeID // registration call order
	logger        *slog.Logger
	metrics       *metric.Metrics
	publisher     EventPublisher
	mu            sync.RWMutex
}

// NewRegistry creates an empty registry reading declarations from store.
// A nil store is replaced by an empty one.
func NewRegistry(store *metadata.Store, opts ...Option) *Registry {
	if store == nil {
		store = metadata.NewStore()
	}
	r := &Registry{
		store:         store,
		registrations: make(map[metadata.TypeID]*Registration),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the metadata store backing this registry
func (r *Registry) Store() *metadata.Store {
	return r.store
}

// Register snapshots the declarations of t into the registry.
// Types without a component descriptor are skipped and Register reports false.
func (r *Registry) Register(t reflect.Type) bool {
	return r.RegisterContext(context.Background(), t)
}

// RegisterContext is Register with a context for the registration event publish
func (r *Registry) RegisterContext(ctx context.Context, t reflect.Type) bool {
	if t == nil {
		return false
	}

	desc, ok := r.store.GetComponentMetadata(t)
	if !ok {
		r.logger.Debug("Skipped component without metadata", "type", t.String())
		if r.metrics != nil {
			r.metrics.RecordSkipped()
		}
		return false
	}

	id, _ := r.store.TypeID(t)
	typ, _ := r.store.TypeByID(id)
	reg := &Registration{
		Type:       typ,
		ID:         id,
		Name:       typeName(typ),
		Metadata:   desc,
		Properties: r.store.GetAllPropertyMetadata(typ),
	}

	r.mu.Lock()
	if _, exists := r.registrations[id]; !exists {
		r.order = append(r.order, id)
	}
	r.registrations[id] = reg
	count := len(r.registrations)
	r.mu.Unlock()

	r.logger.Info("Registered component",
		"component", desc.DisplayName,
		"category", desc.EffectiveCategory(),
		"properties", reg.Properties.Len())

	if r.metrics != nil {
		r.metrics.RecordRegistration(desc.EffectiveCategory(), count)
		r.metrics.RecordDeclaredTypes(r.store.DeclaredCount())
	}

	if r.publisher != nil {
		if err := r.publisher.PublishRegistration(ctx, NewRegistrationEvent(reg)); err != nil {
			r.logger.Warn("Failed to publish registration event",
				"component", desc.DisplayName, "error", err)
		}
	}

	return true
}

// RegisterType registers T with r
func RegisterType[T any](r *Registry) bool {
	return r.Register(metadata.TypeOf[T]())
}

// Get returns the registration for t
func (r *Registry) Get(t reflect.Type) (Registration, bool) {
	id, ok := r.store.TypeID(t)
	if !ok {
		return Registration{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.registrations[id]
	if !ok {
		return Registration{}, false
	}
	return reg.clone(), true
}

// Has reports whether t is registered
func (r *Registry) Has(t reflect.Type) bool {
	id, ok := r.store.TypeID(t)
	if !ok {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok = r.registrations[id]
	return ok
}

// GetAll returns every registration in registration call order.
// Re-registering a type keeps its original position.
func (r *Registry) GetAll() []Registration {
	return r.filter(func(*Registration) bool { return true })
}

// GetAddable returns registrations whose descriptor allows adding, in
// registration order.
func (r *Registry) GetAddable() []Registration {
	return r.filter(func(reg *Registration) bool { return reg.Metadata.Addable })
}

// GetByCategory returns registrations whose category is exactly category,
// sorted by order. Components without a category never match.
func (r *Registry) GetByCategory(category string) []Registration {
	regs := r.filter(func(reg *Registration) bool { return reg.Metadata.Category == category })
	sortByOrder(regs)
	return regs
}

func (r *Registry) filter(keep func(*Registration) bool) []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Registration, 0, len(r.order))
	for _, id := range r.order {
		reg := r.registrations[id]
		if keep(reg) {
			out = append(out, reg.clone())
		}
	}
	return out
}

// Len returns the number of registered components
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.registrations)
}

// Clear removes every registration. Declarations in the store are untouched.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.registrations = make(map[metadata.TypeID]*Registration)
	r.order = nil
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.RecordRegistryCleared()
	}
}

// GetStatistics counts registered, addable and categorized components
func (r *Registry) GetStatistics() Statistics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Statistics{
		TotalComponents:       len(r.registrations),
		CategorizedComponents: make(map[string]int),
	}
	for _, id := range r.order {
		reg := r.registrations[id]
		if reg.Metadata.Addable {
			stats.AddableComponents++
		}
		if reg.Metadata.Category != "" {
			stats.CategorizedComponents[reg.Metadata.Category]++
		}
	}
	return stats
}

func sortByOrder(regs []Registration) {
	slices.SortStableFunc(regs, func(a, b Registration) int {
		return cmp.Compare(a.Metadata.EffectiveOrder(), b.Metadata.EffectiveOrder())
	})
}

func typeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
