// Package credstore persists credentials records.
//
// Supports three storage backends with different security and deployment tradeoffs:
//   - File: Local filesystem storage with exclusive creation, atomic overwrites and secure permissions
//   - Keyring: OS-native credential storage (macOS Keychain, Windows Credential Manager, etc.)
//   - Env: Read-only environment variable access (requires external secret management)
//
// Initialization and refresh require writable storage (file or keyring), while
// reading the current access token works with any backend.
package credstore
