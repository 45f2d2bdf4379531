// Package models defines the domain entities returned by the Yandex Music API and the schemas that decode them.
//
// Entities are immutable values built only by decoding a server response:
//   - [Genre] : catalog genre with nested sub-genres
//   - [User] : account that owns playlists
//   - [Album], [Artist], [Track] : catalog items
//   - [TrackReference] : playlist slot that may embed its full [Track]
//   - [Playlist] : generic over its track representation ([TrackReference] or [Track])
//   - [SearchResult], [Similar] : composite responses
//
// Every entity kind has a typed [schema.Decoder] (e.g. [Genres], [PlaylistRefs]) that unwraps the response
// envelope and validates the payload, failing with a *shared.FormatError that names the entity and field.
package models
