// Package novaeditor is the editor component metadata registry of the Nova ECS
// editor.
//
// Component types declare how an editor presents them: a component descriptor
// (display name, icon, category, order, addable and removable flags) and one
// property descriptor per inspectable field. Declarations are made either with
// the builder API in package metadata or with `editor:"..."` struct tags.
//
// # Layout
//
//   - metadata: the declaration store, tag parser and descriptor types
//   - component: the Registry that snapshots declared types, plus query helpers
//     and optional NATS registration events
//   - plugin: the plugin contract and dispatcher; ComponentPlugin registers a
//     plugin's component types
//   - componentregistry: discovery sweep and plugin registration entry points
//   - session: independent registries scoped to one editor session
//   - export: JSON and YAML registry snapshots validated against a schema
//   - gateway: the read-only HTTP inspector API
//   - health, metric, config, errors: the ambient service stack
//   - builtin: the core components every editor offers
//   - cmd/nova-editor: the service binary
//
// A minimal embedding looks like:
//
//	store := metadata.NewStore()
//	metadata.DeclareComponent[Transform](store, metadata.ComponentOptions{
//		DisplayName: "Transform",
//		Category:    "Core",
//	})
//	registry := component.NewRegistry(store)
//	componentregistry.DiscoverAndRegisterComponents(registry)
//	for _, reg := range component.GetAddableComponents(registry) {
//		fmt.Println(reg.Metadata.DisplayName)
//	}
package novaeditor
