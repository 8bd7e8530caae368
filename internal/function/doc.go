// Package function exposes application operations as named function actions
// behind a single HTTP entry point.
//
// A [Service] owns an ordered registry of actions. Each action is wrapped at
// registration time, from the outside in:
//
//	authorize -> interceptors (first registered runs first) -> validation -> action
//
// Services are opened by a [Dispatcher], which resolves the target action
// from the request's command name, invokes it, and writes the result. Every
// failure is converted by [ComposeError] into a JSON error description with
// a matching HTTP status, so callers never observe a transport-level fault.
//
// [CommandableService] registers one action per command of a
// [commands.Commandable] controller.
package function
