package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"07:00", 7 * 3600, false},
		{"08:30", 8*3600 + 30*60, false},
		{"23:59", 23*3600 + 59*60, false},
		{"", 0, true},
		{"7:0:0", 0, true},
		{"25:00", 0, true},
		{"noon", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.value)
		if tt.wantErr {
			assert.Error(t, err, tt.value)
			continue
		}
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, got, tt.value)
	}
}

func TestSecondsOfDay(t *testing.T) {
	at := time.Date(2024, 11, 5, 8, 30, 1, 0, time.UTC)
	assert.Equal(t, 8*3600+30*60+1, SecondsOfDay(at))
}

func TestDateOnly(t *testing.T) {
	at := time.Date(2024, 11, 5, 8, 30, 1, 999, time.UTC)
	assert.Equal(t, time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC), DateOnly(at))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90*time.Second, ParseDuration("90s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
}
