// Package services defines the [Service] interface for the Yandex Music API and implements it in [YandexService].
//
// # Transport
//
// All requests go through the [Transport] collaborator, a single Do(ctx, [Request]) operation returning the raw
// body of a 2xx response. [HTTPTransport] implements it on [http.Client] with an optional [rate.Limiter]; any other
// status becomes an [*HTTPError] that unwraps to [shared.ErrAPIRequest].
//
// # Authentication
//
// [YandexService.Authenticate] uses the OAuth2 password grant of the mobile client.
// The access token and user id are owned by the service and sent as "Authorization: OAuth <token>".
// Every mutating operation checks for them first and fails with [shared.ErrNotAuthenticated] before any request.
//
// # Playlist changes
//
// Insert and delete always fetch the playlist first, build one [diff.Op] against its track list and submit it with
// the revision captured from that fetch. A rejected revision surfaces as [shared.ErrStaleRevision]; the service never
// re-fetches or retries on its own.
//
// # Error Handling
//
//   - [shared.ErrNotAuthenticated] : no token held for a mutation
//   - [shared.ErrAuthFailed] : credentials rejected by the token endpoint
//   - [shared.ErrAPIRequest] : transport failure or non-2xx response
//   - [shared.ErrStaleRevision] : change submitted against an outdated revision
//   - [shared.ErrNotFound] : playlist lookup by kind or title found nothing
//   - [shared.ErrResponseFormat] : response could not be decoded (*shared.FormatError)
package services
