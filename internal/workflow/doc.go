// Package workflow drives playlist assembly from discovery to creation.
//
// # States
//
// A [Workflow] moves through the states below:
//
//  1. [Idle] : nothing staged and the cart is empty
//  2. [Searching] / [Scanning] : a discovery call is in flight
//  3. [Staged] : one search result is waiting for a track count and confirmation
//  4. [Selecting] : the cart holds at least one artist
//  5. [Submitting] : the playlist request has been sent
//  6. [Created] : the playlist exists; only [Workflow.Reset] leaves this state
//  7. [Failed] : the last operation failed; the next action resumes the prior state
//
// # Serialization
//
// Every discovery and submission takes a generation token. A result whose token is
// no longer current is discarded with [shared.ErrStaleResult] and changes nothing.
// Submission is exclusive.
//
// # Observing
//
// Each mutation publishes a [Snapshot] to the [Store]. Subscribers receive the latest
// snapshot on a buffered channel; a slow reader only ever misses intermediate states.
package workflow
