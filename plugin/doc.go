// Package plugin defines the contracts between editor plugins and the host.
//
// A Plugin only has to describe itself and list the component types it
// contributes. Everything else is an optional capability expressed as its own
// small interface (Installer, Uninstaller, Updater, WorldListener,
// EntityListener, ComponentListener); the host checks for each with a type
// assertion, so a plugin implements exactly the hooks it needs.
//
// ComponentPlugin is the common "components provider" plugin: installing it
// registers its types with a component.Registry and nothing more.
//
//	core := plugin.NewComponentPlugin(plugin.Metadata{Name: "core", Version: "1.0.0"},
//		metadata.TypeOf[Transform](), metadata.TypeOf[Sprite]())
//	core.BindRegistry(registry)
//	err := dispatcher.Install(ctx, core, world, nil)
//
// Dispatcher keeps the installed set and fans host events out to it.
package plugin
