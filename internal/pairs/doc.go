// Package pairs caches the exchange's tradeable-pair catalog in memory.
//
// The catalog is fetched on demand and replaced wholesale: a refresh builds
// a new snapshot off-lock and swaps the pointer, so readers never see a
// partially updated set. When the upstream fetch fails and an expired
// snapshot exists, the stale snapshot is served rather than an error. An
// optional Store persists snapshots across restarts.
package pairs
