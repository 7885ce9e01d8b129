// Package services implements the clients festify uses to reach the Festify API.
//
// # Interfaces
//
// The workflow depends on three narrow interfaces so each can be faked in tests:
//   - [Catalog] : artist search
//   - [Recognizer] : poster image to artist names
//   - [PlaylistCreator] : playlist creation
//
// [FestifyService] implements all of them over HTTP.
//
// # Transport
//
// [APIService] performs raw requests and returns an [APIResponse] holding the status and body.
// All requests share a [rate.Limiter] configured from api.requests_per_second.
// Authentication is optional: [NewHTTPClient] attaches a bearer token with [oauth2.NewClient],
// and [WithSessionCookie] sends the festify_session cookie.
//
// # Endpoints
//
//   - GET /search?q= : {"artists":[{"id","name","image","genres"}]}
//   - POST /scan-poster (multipart field "file") : {"artists":["name", ...]}
//   - POST /playlist/create : {"url","playlist_name","track_count"}
//   - GET /health : {"status"}
//
// # Error Handling
//
// Any transport error or non-2xx status is wrapped with [shared.ErrAPIRequest]
// ([shared.ErrServiceUnavailable] for health checks). Failure bodies are never parsed.
package services
