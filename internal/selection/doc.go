// Package selection holds the cart of confirmed artists and the track-count policy applied to it.
//
// # Identity
//
// Entries are unique by [models.ArtistCandidate.Key]: the catalog ID when known, otherwise the normalized name.
// Adding an artist that is already present is a no-op, so repeated staging or duplicate poster names never produce two entries.
//
// # Track counts
//
// Every entry resolves its count through [ResolveCount]: its own count, else the last global preset, else [models.DefaultTrackCount].
// [Cart.ApplyGlobal] is a broadcast write. Entries edited individually since the previous apply keep their count for that one apply;
// the apply then clears every override flag, so the next apply reaches them.
//
// # Bulk mode
//
// A cart that received a poster import ([Cart.BulkImport]) is in bulk mode. The [models.Discography] sentinel is refused there,
// and by [Cart.ApplyGlobal] whenever more than one artist is selected.
//
// A [Cart] is not safe for concurrent use; the workflow serializes access.
package selection
