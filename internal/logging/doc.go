// Package logging provides a simple leveled logging interface for the
// video upscaler.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information (per-frame pump details)
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The initial level is read from the LOG_LEVEL environment variable (or
// DEBUG=1). Command line tools may override it with SetLevel and redirect
// output with SetOutput so that progress output on stdout stays clean.
//
// Run-scoped messages use a Logger returned by WithPrefix:
//
//	log := logging.WithPrefix("[run 1a2b3c4d] ")
//	log.Info("probing %s", path)
package logging
