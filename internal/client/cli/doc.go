// Package cli provides the interactive meetscribe command-line client.
//
// It wires configuration, the local store, the identity provider and the
// backend client into a REPL. The session starts as a guest (or restores a
// previous login) and every analysis is checked against the daily quota of
// the current tier.
//
// Key features:
//   - Register / Login / Logout, with guest history transferred on register
//   - Analyze audio files and browse, export or delete stored meetings
//   - Usage and status display
//   - Language and theme preferences
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See NewApp and runREPL for details.
package cli
