package formatter

import (
	"encoding/json"
	"errors"
	"strings"
)

// Output formats
const (
	FormatJSON    = "json"
	FormatMsgPack = "msgpack"
)

// ErrUnknownFormat is returned for unsupported format names
var ErrUnknownFormat = errors.New("unknown response format")

type responseBuilder struct{}

func newResponseBuilder() *responseBuilder { return &responseBuilder{} }

// NewResponseBuilder creates a new response builder for traffic responses
func NewResponseBuilder() *responseBuilder {
	return newResponseBuilder()
}

// ParseFormat normalizes a format name; empty means JSON
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMsgPack:
		return FormatMsgPack, nil
	}
	return "", ErrUnknownFormat
}

// ContentType returns the MIME type of a format
func ContentType(format string) string {
	if format == FormatMsgPack {
		return "application/x-msgpack"
	}
	return "application/json"
}

// Build serializes res in the requested format
func (rb *responseBuilder) Build(format string, res any) ([]byte, error) {
	switch format {
	case FormatJSON:
		return rb.BuildJSON(res)
	case FormatMsgPack:
		return rb.BuildMsgPack(res)
	}
	return nil, ErrUnknownFormat
}

// BuildJSON serializes a response to JSON
func (rb *responseBuilder) BuildJSON(res any) ([]byte, error) {
	return json.Marshal(res)
}
