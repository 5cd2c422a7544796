// Package connectivity tells the sync engine whether the backend is
// reachable and notifies it when the client comes online or back to the
// foreground.
//
// Watcher probes the backend with Ping on a fixed interval and publishes
// transitions. Manual is driven by hand and is what tests use.
package connectivity
