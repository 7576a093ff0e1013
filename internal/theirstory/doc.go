// Package theirstory provides the authenticated client for the TheirStory
// story-hosting API.
//
// A Client owns exactly one session token: Authenticate sets it, Logout and
// failed sign-ins clear it, and every other call reads it. Requests carry the
// static X-API-Key, the configured Origin, and the raw token in Authorization.
// Calls that need a session fail with AuthenticationError before touching the
// network when no token is held. Non-2xx responses surface as RequestError
// with the status and body intact.
//
// Stories are normalized once at this boundary: the service reports either
// `_id` or `id`, and callers only ever see Story.ID.
package theirstory
