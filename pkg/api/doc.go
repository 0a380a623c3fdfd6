// Package api defines the votejam.v1 wire messages.
//
// Messages travel as JSON over Connect; field names follow the lowerCamelCase
// convention of protobuf's JSON mapping so browser clients see the same shape
// either way. Timestamps are Unix seconds.
package api
