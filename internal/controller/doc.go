// Package controller drives the sign-in and story-loading flow.
//
// The Controller holds the two visible states (Unauthenticated with the auth
// form shown, Authenticated with the story list shown), the staged story
// selection, and the render targets that receive a loaded story. Every
// operation reports failures through the View and returns them to the caller;
// nothing here is fatal to the process.
//
// Submitting a selection fetches the story record, transcript markup and
// recording URL concurrently. Render targets are only written once all three
// succeed, after which the renderer is notified and the controller resets to
// an empty Authenticated state.
package controller
