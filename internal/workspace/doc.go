// Package workspace persists the page's render targets in SQLite.
//
// A single targets row holds what the page currently shows: the media source
// and how many times it was reloaded, the transcript markup, and the story the
// content came from. Every write bumps a revision so the page can tell when to
// refresh. Completed loads are appended to a bounded history.
//
// The database is local scratch state. Schema changes bump the version in
// schema.go; users delete workspace.db to adopt the new schema.
package workspace
