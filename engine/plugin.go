package engine

// Plugin adds systems, render nodes and resources to an App.
//
// Startup calls Build on every plugin in registration order, then Finish on every plugin.
// Finish runs once all plugins have built, so it can rely on the complete render graph.
type Plugin interface {
	// Name returns a short identifier used in logs and errors.
	Name() string

	// Build registers the plugin's systems and render graph nodes.
	//
	// Parameters:
	//   - app: the app being built
	//
	// Returns:
	//   - error: an error aborts startup
	Build(app App) error

	// Finish prepares GPU resources once every plugin has been built.
	//
	// Parameters:
	//   - app: the app being built
	//
	// Returns:
	//   - error: an error aborts startup
	Finish(app App) error
}
