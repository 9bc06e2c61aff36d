// Package tokenstore persists the two bearer tokens of a taskdesk session.
//
// A session holds an access token and a refresh token, keyed by Kind. Three
// backends with different durability and security tradeoffs are provided:
//   - File: a 0600 JSON document on the local filesystem, written atomically
//   - Keyring: OS-native credential storage (macOS Keychain, Windows Credential Manager, etc.)
//   - Env: an in-memory store seeded once from environment variables
//
// Stores are dumb durable maps. They never inspect token shape or expiry.
package tokenstore
