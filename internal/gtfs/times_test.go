package gtfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
		ok    bool
	}{
		{"past midnight", "25:10:00", 90600, true},
		{"morning", "08:00:09", 28809, true},
		{"fractional truncated", "08:00:9.5", 28809, true},
		{"midnight", "00:00:00", 0, true},
		{"empty", "", 0, false},
		{"two components", "08:00", 0, false},
		{"four components", "1:2:3:4", 0, false},
		{"non-numeric hours", "ab:00:00", 0, false},
		{"non-numeric seconds", "08:00:xx", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseTime(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
