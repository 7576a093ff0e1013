// Package main hosts the storylink CLI entrypoint and command graph.
//
// The Cobra-based command tree signs in to TheirStory, lists stories, loads a
// story into the local workspace, prints what the workspace holds, and runs the
// player page together with an interactive session. Configuration, logging,
// the API client and the workspace are resolved once per invocation in
// commandContext so subcommands only deal with user interaction.
package main
