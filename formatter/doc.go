// Package formatter provides response wrapping and serialization for station
// traffic responses.
//
// This package is organized into:
// - wrapper.go: response envelopes (timestamp, window, summary, payload)
// - json.go: JSON serialization
// - msgpack.go: MessagePack serialization using the JSON field names
package formatter
