// Package utils provides internal utility functions for the station traffic service.
// This package is not intended to be imported by external code.
//
// It contains:
//   - Trip timestamp parsing and minute-of-day conversion
//   - Time-of-day labels for filter windows
//   - ISO8601 response timestamps
package utils
