// Package credstore locates, parses, and persists the Claude CLI OAuth
// credential set.
//
// Two schema variants are accepted: a document wrapping the credential
// object in "claudeAiOauth" (the .credentials.json layout) or in
// "oauthAccount" (the legacy .claude.json layout). Both normalize to the
// same Record. On write, only the credential fields inside the matched
// section are replaced; every other key in the document passes through.
//
// Two storage backends are provided:
//   - FileStore: local file with a backup copy and temp-file-then-rename
//     atomic writes
//   - KeyringStore: the OS-native credential storage Claude Code itself
//     uses (macOS Keychain, Windows Credential Manager, Secret Service)
package credstore
