package numerator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Format(t *testing.T) {
	period := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cfg  Config
		seq  int
		want string
	}{
		{"default", DefaultConfig("INV"), 1, "INV-00001"},
		{"with year", Config{Prefix: "QUO", IncludeYear: true, PadWidth: 4}, 12, "QUO-2024-0012"},
		{"no prefix", Config{PadWidth: 3}, 7, "007"},
		{"zero width falls back", Config{Prefix: "RCT"}, 42, "RCT-00042"},
		{"overflow keeps digits", Config{Prefix: "INV", PadWidth: 2}, 1234, "INV-1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Format(tt.seq, period))
		})
	}
}
