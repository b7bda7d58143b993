// Package logger provides leveled output for ghsecrets CLI commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Output is formatted with semantic prefixes and colors.
//
// # Verbosity Levels
//
//   - --verbose: Shows info messages
//   - --debug: Shows all messages including debug details
//
// Warnings and errors are always shown.
//
// # Log Methods
//
//	Logger.Infof()          // Shown with --verbose or --debug
//	Logger.Debugf()         // Shown only with --debug
//	Logger.Warnf()          // Always shown
//	Logger.Errorf()         // Always shown
//	Logger.ErrorfAndReturn() // Logs with --debug, returns the error
//
// Secret values and tokens are never passed to the logger. Types that may
// hold them (secrets.EncryptedPayload, ghapi.Session) redact themselves when
// formatted, so logging them with %v is safe.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Listing secrets for %s", repo)
package logger
