// Package obsidian provides a client for the Obsidian Local REST API.
//
// The Local REST API is an HTTP API exposed by an Obsidian plugin that
// allows reading, writing and searching notes in a vault. Failures from
// the API are returned as *ErrorResponse carrying the HTTP status code.
package obsidian
