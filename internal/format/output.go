// Package format encodes CLI results as JSON or EDN.
package format

import (
	"encoding/json"
	"fmt"
	"io"
)

const (
	JSON = "json"
	EDN  = "edn"
)

// Envelope is the top-level shape of every CLI result.
type Envelope struct {
	Data any `json:"data"`
	Meta any `json:"meta,omitempty"`
}

// Valid reports whether format names a supported encoding. Empty means JSON.
func Valid(format string) bool {
	switch format {
	case "", JSON, EDN:
		return true
	}
	return false
}

// Write encodes v in the requested format.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", JSON:
		return WriteJSON(w, v, pretty)
	case EDN:
		return WriteEDN(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteData wraps v in an Envelope before encoding it.
func WriteData(w io.Writer, v any, format string, pretty bool) error {
	return Write(w, Envelope{Data: v}, format, pretty)
}

func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
