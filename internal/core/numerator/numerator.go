// Package numerator formats sequential document numbers.
package numerator

import (
	"fmt"
	"strings"
	"time"
)

// Config holds numbering configuration for one document type.
type Config struct {
	// Prefix added to all numbers (e.g., "INV", "RCT")
	Prefix string

	// IncludeYear inserts the period year between prefix and sequence.
	IncludeYear bool

	// PadWidth is the minimum sequence width (default 5)
	PadWidth int
}

// DefaultConfig returns the layout used for typed documents: PREFIX-00001.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:   prefix,
		PadWidth: 5,
	}
}

// Format renders seq using cfg. Pattern: PREFIX[-YEAR]-XXXXX.
func (c Config) Format(seq int, period time.Time) string {
	width := c.PadWidth
	if width <= 0 {
		width = 5
	}

	parts := make([]string, 0, 3)
	if c.Prefix != "" {
		parts = append(parts, c.Prefix)
	}
	if c.IncludeYear {
		parts = append(parts, fmt.Sprintf("%04d", period.Year()))
	}
	parts = append(parts, fmt.Sprintf("%0*d", width, seq))
	return strings.Join(parts, "-")
}
