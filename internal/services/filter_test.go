package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeThreshold(t *testing.T) {
	tests := []struct {
		value int
		unit  string
		want  time.Duration
	}{
		{1, UnitYear, 365 * 24 * time.Hour},
		{2, UnitMonth, 60 * 24 * time.Hour},
		{2, UnitDay, 48 * time.Hour},
		{12, UnitHour, 12 * time.Hour},
		{30, UnitMinute, 30 * time.Minute},
	}
	for _, tt := range tests {
		got, err := ageThreshold(tt.value, tt.unit)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ageThreshold(1, "w")
	assert.Error(t, err)
}

func TestFilterByAge(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	records := []Record{
		{Title: "1h old", Time: now.Add(-1 * time.Hour)},
		{Title: "3d old", Time: now.Add(-3 * 24 * time.Hour)},
		{Title: "exactly 2d old", Time: now.Add(-48 * time.Hour)},
	}

	t.Run("no state keeps everything", func(t *testing.T) {
		got, err := filterByAge(records, RequestOptions{}, now)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("newer keeps age below threshold", func(t *testing.T) {
		got, err := filterByAge(records, RequestOptions{State: StateNewer, Value: 2, Duration: UnitDay}, now)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "1h old", got[0].Title)
	})

	t.Run("older keeps age at or above threshold", func(t *testing.T) {
		got, err := filterByAge(records, RequestOptions{State: StateOlder, Value: 2, Duration: UnitDay}, now)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "3d old", got[0].Title)
		assert.Equal(t, "exactly 2d old", got[1].Title)
	})

	t.Run("invalid unit fails", func(t *testing.T) {
		_, err := filterByAge(records, RequestOptions{State: StateOlder, Value: 1, Duration: "fortnight"}, now)
		assert.Error(t, err)
	})

	t.Run("empty input stays empty", func(t *testing.T) {
		got, err := filterByAge(nil, RequestOptions{State: StateNewer, Value: 1, Duration: UnitHour}, now)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
