// Package errors provides standardized error handling patterns for the editor
// metadata packages.
//
// # Overview
//
// Errors fall into three classes: Transient (temporary, retryable), Invalid
// (bad input, non-retryable) and Fatal (programming errors, stop).
//
// The metadata store and the component registry never return errors from their
// query paths: absence is always a defined result. Errors only come out of the
// surrounding plumbing: configuration loading, struct tag parsing, plugin
// installation, snapshot export and event publishing.
//
// # Error Wrapping Pattern
//
// All error wrapping follows the format:
//
//	"component.method: action failed: %w"
//
// Three wrapper functions set the class:
//
//	errors.WrapTransient(err, "NATSPublisher", "Publish", "event publish")
//	errors.WrapInvalid(err, "EditorTag", "ParseEditorTag", "min parsing")
//	errors.WrapFatal(err, "ComponentRegistry", "RegisterPlugins", "registry validation")
//
// The generic Wrap() keeps the original error's classification reachable
// through errors.As.
//
// # Integration with errors.As/Is
//
//	var ce *errors.ClassifiedError
//	if errors.As(err, &ce) {
//	    logger.Warn("operation failed", "component", ce.Component, "class", ce.Class)
//	}
//
//	if errors.Is(err, errors.ErrInvalidTag) {
//	    // malformed `editor` struct tag
//	}
package errors
