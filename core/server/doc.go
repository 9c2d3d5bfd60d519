// Package server holds the HTTP server configuration.
//
// The entry point in cmd/start.go builds the Fiber application from Config:
// listen address, upload body limit and whether the API key middleware is
// mounted.
package server
