// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. Handlers decode and validate JSON bodies with
// struct tags, call the service layer, and map service errors to status
// codes in errors.go. Raw errors are only logged, redacted.
package api
