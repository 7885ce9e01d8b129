// Package models defines the domain entities of the festify playlist assembly workflow.
//
// The package contains two categories of types:
//
// 1. Workflow values: created by discovery and copied as they move through the workflow
//   - [ArtistCandidate] : An artist found by search or read off a poster
//   - [SelectionEntry] : A confirmed artist in the cart with its track count and enabled flag
//   - [TrackCount] : A positive number of top tracks or the [Discography] sentinel
//   - [PlaylistRequest] : The creation request derived from the enabled entries
//   - [PlaylistResult] : The authoritative response of the Festify API
//   - [Poster] : An uploaded poster image awaiting recognition
//
// 2. Persistent entities: rows in the local history database
//   - [HistoryRecord] : A playlist created through festify
//   - [HistoryArtist] : One requested artist of a [HistoryRecord]
//
// The Repository[T] interface defines standard CRUD operations for database access.
package models
