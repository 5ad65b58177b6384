// Package monitoring provides the logging implementation of runtime.Monitor.
//
// Commands construct a monitor with New(logLevel, tags) once the launcher
// configuration is loaded, and use PreConfig() for anything that has to be
// logged before that point.
package monitoring
