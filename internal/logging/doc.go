// Package logging provides opt-in file-based logging with rotation for rarian.
// When the --debug flag is set, comprehensive logs are written to ~/.rarian/logs/
// for debugging and troubleshooting.
//
// By default (without --debug), logging is minimal and goes to stderr only.
// The exception is "rarian serve", which always writes to the rotating log
// file at its --log-level and never to stderr, with or without --debug.
package logging
