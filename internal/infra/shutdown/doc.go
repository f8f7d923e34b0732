// Package shutdown coordinates graceful process shutdown.
//
// Hooks registered with OnShutdown run in reverse registration order,
// sharing one timeout, when SIGINT or SIGTERM arrives or the context
// passed to Wait is cancelled.
package shutdown
