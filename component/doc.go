// Package component provides the editor component registry.
//
// # Overview
//
// Authors declare editor metadata for their component types in a
// metadata.Store. A Registry then snapshots those declarations into
// Registrations, which is what an inspector UI renders from. Declaring and
// registering are separate steps: a type can be declared long before any
// registry sees it, and registering a type with no component declaration is a
// silent no-op.
//
//	store := metadata.NewStore()
//	metadata.DeclareComponent[Health](store, metadata.ComponentOptions{
//		DisplayName: "Health",
//		Category:    "Gameplay",
//	})
//
//	registry := component.NewRegistry(store, component.WithLogger(logger))
//	component.RegisterType[Health](registry)
//
// # Queries
//
// Registry methods expose the raw views: GetAll in registration order,
// GetAddable, GetByCategory with an exact category match, and GetStatistics.
// The package-level helpers (GetAddableComponents, GetComponentsByCategory,
// GetPropertiesByCategory, the display name, icon and category lookups, and
// the CanAdd/CanRemove predicates) never fail: unregistered types resolve to
// their defaults.
//
// Note the two category views differ. GetStatistics only counts components
// that declared a category, while GetComponentsByCategory files the rest under
// "Uncategorized".
//
// # Events
//
// Every successful Register logs the component display name through slog and,
// when configured, publishes a RegistrationEvent. NATSPublisher sends it as
// JSON on {prefix}.registered.{type}.
//
// # Thread Safety
//
// Registry guards its state with a sync.RWMutex. Independent editor sessions
// should still use independent registries; see package session.
package component
