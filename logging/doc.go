/*
Package logging offers a client for emitting log entries to the host runtime.

The package exposes a small interface with convenience methods for common log
levels (Info, Warn, Error, Debug, Trace). Each entry becomes a waPC host call
on the "logging" capability with the level as the function name. Discard is
available for callers that want logging optional.
*/
package logging
