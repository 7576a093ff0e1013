// Package credentials remembers the last email used to sign in.
//
// Only the email is persisted, in a small TOML file under the state
// directory. Passwords and tokens never touch disk. Reads and writes take a
// sidecar flock so concurrent storylink processes never observe a partially
// written file.
package credentials
