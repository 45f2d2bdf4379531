// Package diff builds the revision-guarded change requests that mutate a playlist's track list.
//
// A change is always computed from a freshly fetched playlist: [BuildInsert] and [BuildDelete] validate the
// operation against the playlist's current track count, and [NewSubmission] captures its revision. The server
// rejects a submission whose revision is stale; nothing here retries or re-applies a rejected change.
package diff
