// Package page serves the local player page and streams renderer events to it.
//
// The page exposes two render targets, a media element (#hyperplayer) and a
// transcript container (#hypertranscript), filled from the workspace. Broker
// implements controller.Notifier: each notification is buffered with a
// sequence number and pushed to connected pages over Server-Sent Events, where
// the page script refreshes both targets and re-dispatches the event on the
// document for Hyperaudio.
//
// Other storylink processes reach a running page through POST /notify;
// RemoteNotifier is the client side of that endpoint.
package page
