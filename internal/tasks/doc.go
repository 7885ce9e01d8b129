// Package tasks runs the multi-step playlist operations behind the CLI with progress reporting.
//
// # Operations
//
//  1. [ResolveArtists] : Search many artist queries concurrently
//     - Bounded by [ResolveOpts.NumWorkers] (the API client's rate limiter still applies)
//     - Keeps each query's top hit, in query order
//     - The first failure cancels the remaining searches
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking, so a slow or absent reader only loses updates.
package tasks
