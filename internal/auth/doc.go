// Package auth resolves and stores the GitHub personal access token.
//
// A token is looked up in order:
//
//  1. The --token flag
//  2. GHSECRETS_TOKEN, then GITHUB_TOKEN
//  3. The OS keychain (service "ghsecrets")
//
// Only the keychain is written to; `ghsecrets auth login` stores a token
// there and `ghsecrets auth logout` removes it. The token is never written
// to the config file or the audit log.
package auth
