package port

// ReloadNotifier defines the interface for telling connected browsers
// that the static bundle changed.
type ReloadNotifier interface {
	// BroadcastReload sends a reload message to all connected clients
	BroadcastReload(reason string)

	// ClientCount returns the number of connected clients
	ClientCount() int
}
