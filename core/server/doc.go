// Package server holds configuration for the optional dashboard HTTP server.
package server
