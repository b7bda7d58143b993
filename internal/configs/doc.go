// Package configs manages ghsecrets configuration and on-disk locations.
//
// # Configuration File
//
// User configuration lives in $XDG_CONFIG_HOME/ghsecrets/config.toml
// (os.UserConfigDir on other platforms):
//
//	api_url = "https://api.github.com/"
//	default_repo = "octo/hello"
//	concurrency = 4
//	requests_per_second = 10.0
//	timeout = "30s"
//
// A missing file means defaults. Environment variables override the file:
// GHSECRETS_API_URL and GHSECRETS_REPO. They may also be set in a
// .ghsecrets.env file in the working directory, see LoadEnvFile.
//
// The configuration never holds a token. Tokens live in the OS keychain; see
// the auth package.
//
// # Settings
//
// UserSettings holds the resolved paths (config directory, data directory
// for the audit log) and the OS username. It is initialized once at startup
// and can be replaced in tests.
package configs
