package tz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chicago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	return loc
}

func TestResolve(t *testing.T) {
	assert.Equal(t, time.UTC, Resolve(""))
	assert.Equal(t, time.UTC, Resolve("Not/AZone"))

	loc := Resolve("America/Chicago")
	require.NotNil(t, loc)
	assert.Equal(t, "America/Chicago", loc.String())
}

func TestReturnWindow(t *testing.T) {
	chi := chicago(t)

	testCases := []struct {
		name          string
		checkoutLocal time.Time
		wantLocal     time.Time
		wantWeekend   bool
	}{
		{
			name:          "Tuesday 10:00 is due Wednesday 10:00",
			checkoutLocal: time.Date(2025, 6, 3, 10, 0, 0, 0, chi),
			wantLocal:     time.Date(2025, 6, 4, 10, 0, 0, 0, chi),
			wantWeekend:   false,
		},
		{
			name:          "Monday keeps seconds on the one-day window",
			checkoutLocal: time.Date(2025, 6, 2, 9, 15, 42, 0, chi),
			wantLocal:     time.Date(2025, 6, 3, 9, 15, 42, 0, chi),
			wantWeekend:   false,
		},
		{
			name:          "Thursday 23:30 is due Friday 23:30",
			checkoutLocal: time.Date(2025, 6, 5, 23, 30, 0, 0, chi),
			wantLocal:     time.Date(2025, 6, 6, 23, 30, 0, 0, chi),
			wantWeekend:   false,
		},
		{
			name:          "Friday 08:00 is due Monday 08:00",
			checkoutLocal: time.Date(2025, 6, 6, 8, 0, 0, 0, chi),
			wantLocal:     time.Date(2025, 6, 9, 8, 0, 0, 0, chi),
			wantWeekend:   true,
		},
		{
			name:          "Saturday 14:00 is due Monday 14:00",
			checkoutLocal: time.Date(2025, 6, 7, 14, 0, 0, 0, chi),
			wantLocal:     time.Date(2025, 6, 9, 14, 0, 0, 0, chi),
			wantWeekend:   true,
		},
		{
			name:          "Sunday 18:45 is due Monday 18:45",
			checkoutLocal: time.Date(2025, 6, 8, 18, 45, 0, 0, chi),
			wantLocal:     time.Date(2025, 6, 9, 18, 45, 0, 0, chi),
			wantWeekend:   true,
		},
		{
			name:          "weekend window truncates seconds",
			checkoutLocal: time.Date(2025, 6, 7, 14, 30, 45, 0, chi),
			wantLocal:     time.Date(2025, 6, 9, 14, 30, 0, 0, chi),
			wantWeekend:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, weekend := ReturnWindow(tc.checkoutLocal.UTC(), chi)
			assert.Equal(t, time.UTC, got.Location())
			assert.True(t, got.Equal(tc.wantLocal), "got %v, want %v", got.In(chi), tc.wantLocal)
			assert.Equal(t, tc.wantWeekend, weekend)
			assert.True(t, got.After(tc.checkoutLocal.UTC()), "deadline must follow checkout time")
		})
	}
}

func TestUnlockPassed(t *testing.T) {
	chi := chicago(t)
	unlock := time.Date(2025, 6, 4, 10, 0, 0, 0, chi).UTC()

	assert.False(t, UnlockPassed(unlock, chi, unlock.Add(-time.Minute)))
	assert.True(t, UnlockPassed(unlock, chi, unlock), "boundary counts as passed")
	assert.True(t, UnlockPassed(unlock, chi, unlock.Add(time.Minute)))
}

func TestIsWeekend(t *testing.T) {
	chi := chicago(t)

	assert.False(t, IsWeekend(time.Date(2025, 6, 5, 12, 0, 0, 0, chi), chi)) // Thursday
	assert.True(t, IsWeekend(time.Date(2025, 6, 6, 12, 0, 0, 0, chi), chi))  // Friday
	assert.True(t, IsWeekend(time.Date(2025, 6, 8, 12, 0, 0, 0, chi), chi))  // Sunday

	// A UTC instant late Thursday in Chicago is already Friday in UTC; the
	// weekend test must follow the location's calendar, not the instant's.
	lateThursday := time.Date(2025, 6, 5, 22, 0, 0, 0, chi) // 03:00 Friday UTC
	assert.False(t, IsWeekend(lateThursday.UTC(), chi))
}
