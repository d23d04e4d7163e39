package service

import (
	"testing"
	"time"

	"inovocb/internal/models"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func dayPtr(s string) *time.Time {
	d := day(s)
	return &d
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, daysBetween(day("2026-03-01"), day("2026-03-01")))
	assert.Equal(t, 1, daysBetween(day("2026-03-01"), day("2026-03-02")))
	assert.Equal(t, 31, daysBetween(day("2026-03-01"), day("2026-04-01")))
	// Time of day within the same calendar date does not matter.
	late := day("2026-03-01").Add(23 * time.Hour)
	early := day("2026-03-02").Add(1 * time.Minute)
	assert.Equal(t, 1, daysBetween(late, early))
}

func TestDaysBetweenSpringForwardDay(t *testing.T) {
	// US spring-forward: Mar 7 is UTC-5, Mar 8 is UTC-4, so the local day is
	// only 23 hours long. It still counts as one calendar day.
	before := time.Date(2026, 3, 7, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	after := time.Date(2026, 3, 8, 12, 0, 0, 0, time.FixedZone("EDT", -4*3600))
	assert.Equal(t, 1, daysBetween(before, after))
}

func TestApplyStreakSurvivesSpringForward(t *testing.T) {
	last := time.Date(2026, 3, 7, 0, 0, 0, 0, time.FixedZone("EST", -5*3600))
	a := &models.PointsAccount{LastActivityDate: &last, StreakDays: 4, LongestStreak: 6}
	today := time.Date(2026, 3, 8, 9, 30, 0, 0, time.FixedZone("EDT", -4*3600))
	assert.True(t, applyStreak(a, today))
	assert.Equal(t, 5, a.StreakDays, "a 23-hour day must extend the streak, not reset it")
}

func TestApplyRolloverFirstOfDay(t *testing.T) {
	a := &models.PointsAccount{
		ReceiptsToday:     7,
		PointsEarnedToday: 340,
		SpinsAvailable:    2,
		LastResetDate:     dayPtr("2026-03-01"),
		LastDailySpin:     dayPtr("2026-03-01"),
	}
	assert.True(t, applyRollover(a, day("2026-03-02")))
	assert.Equal(t, 0, a.ReceiptsToday)
	assert.Equal(t, 0, a.PointsEarnedToday)
	assert.Equal(t, 3, a.SpinsAvailable, "exactly one free spin per day")
	assert.True(t, a.LastResetDate.Equal(day("2026-03-02")))
	assert.True(t, a.LastDailySpin.Equal(day("2026-03-02")))
}

func TestApplyRolloverIdempotentSameDay(t *testing.T) {
	a := &models.PointsAccount{SpinsAvailable: 0}
	today := day("2026-03-02")
	assert.True(t, applyRollover(a, today))
	spins := a.SpinsAvailable
	for i := 0; i < 5; i++ {
		assert.False(t, applyRollover(a, today))
	}
	assert.Equal(t, spins, a.SpinsAvailable)
}

func TestApplyRolloverNewAccount(t *testing.T) {
	a := &models.PointsAccount{}
	assert.True(t, applyRollover(a, day("2026-03-02")))
	assert.Equal(t, 1, a.SpinsAvailable)
	assert.NotNil(t, a.LastResetDate)
}

func TestApplyRolloverMultiDayGapGrantsOneSpin(t *testing.T) {
	a := &models.PointsAccount{
		SpinsAvailable: 1,
		LastResetDate:  dayPtr("2026-03-01"),
		LastDailySpin:  dayPtr("2026-03-01"),
	}
	// A week away is still a single rollover, not seven.
	assert.True(t, applyRollover(a, day("2026-03-08")))
	assert.Equal(t, 2, a.SpinsAvailable)
}

func TestApplyStreak(t *testing.T) {
	tests := []struct {
		name        string
		last        *time.Time
		streak      int
		longest     int
		today       string
		wantChanged bool
		wantStreak  int
		wantLongest int
	}{
		{
			name: "first ever activity", last: nil, streak: 0, longest: 0,
			today: "2026-03-02", wantChanged: true, wantStreak: 1, wantLongest: 1,
		},
		{
			name: "same day repeat", last: dayPtr("2026-03-02"), streak: 4, longest: 6,
			today: "2026-03-02", wantChanged: false, wantStreak: 4, wantLongest: 6,
		},
		{
			name: "consecutive day extends", last: dayPtr("2026-03-01"), streak: 4, longest: 6,
			today: "2026-03-02", wantChanged: true, wantStreak: 5, wantLongest: 6,
		},
		{
			name: "new longest", last: dayPtr("2026-03-01"), streak: 6, longest: 6,
			today: "2026-03-02", wantChanged: true, wantStreak: 7, wantLongest: 7,
		},
		{
			name: "two day gap restarts", last: dayPtr("2026-02-28"), streak: 9, longest: 9,
			today: "2026-03-02", wantChanged: true, wantStreak: 1, wantLongest: 9,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &models.PointsAccount{
				LastActivityDate: tt.last,
				StreakDays:       tt.streak,
				LongestStreak:    tt.longest,
			}
			got := applyStreak(a, day(tt.today))
			assert.Equal(t, tt.wantChanged, got)
			assert.Equal(t, tt.wantStreak, a.StreakDays)
			assert.Equal(t, tt.wantLongest, a.LongestStreak)
			if got {
				assert.True(t, a.LastActivityDate.Equal(day(tt.today)))
			}
		})
	}
}
