package sim

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestIsWorkingDay_SundayIsTheOnlyNonWorkingDay(t *testing.T) {
	// 2024-01-01 is a Monday
	monday := mustDate(t, "2024-01-01")
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		assert.Equal(t, d.Weekday() != time.Sunday, IsWorkingDay(d), d.Weekday().String())
	}
}

func TestAddWorkingDays(t *testing.T) {
	tests := []struct {
		start string
		n     int
		want  string
	}{
		{"2024-01-01", 1, "2024-01-02"}, // Monday -> Tuesday
		{"2024-01-06", 1, "2024-01-08"}, // Saturday -> Monday, Sunday skipped
		{"2024-01-05", 2, "2024-01-08"}, // Friday -> Monday
		{"2024-01-07", 1, "2024-01-08"}, // Sunday -> Monday
		{"2024-01-01", 6, "2024-01-08"}, // a full working week
		{"2024-01-06", 0, "2024-01-08"}, // 0 means the next working day
	}
	for _, tc := range tests {
		got := AddWorkingDays(mustDate(t, tc.start), tc.n)
		assert.Equal(t, tc.want, FormatDate(got), "AddWorkingDays(%s, %d)", tc.start, tc.n)
	}
}

func TestDayOfWeek(t *testing.T) {
	assert.Equal(t, "Monday", DayOfWeek(mustDate(t, "2024-01-01")))
	assert.Equal(t, "Sunday", DayOfWeek(mustDate(t, "2024-01-07")))
}

func TestParseDate_RejectsOtherLayouts(t *testing.T) {
	_, err := ParseDate("2024/01/01")
	assert.Error(t, err)
	_, err = ParseDate("2024-02-30")
	assert.Error(t, err)
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(time.Date(2024, 2, 29, 15, 4, 5, 0, time.UTC))
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(d.Time))

	assert.Error(t, json.Unmarshal([]byte(`20240229`), &back))
}
