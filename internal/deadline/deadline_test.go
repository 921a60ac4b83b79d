package deadline

import (
	"testing"
	"time"

	"github.com/TheSummerRain/wutongjiebang/internal/models"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassifyAt_Bands(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline time.Time
		band     Band
		days     int
	}{
		{"overdue", date(2026, time.March, 8), Overdue, -2},
		{"yesterday", date(2026, time.March, 9), Overdue, -1},
		{"due today", date(2026, time.March, 10), DueToday, 0},
		{"tomorrow", date(2026, time.March, 11), Urgent, 1},
		{"week boundary", date(2026, time.March, 17), Urgent, 7},
		{"past week boundary", date(2026, time.March, 18), Normal, 8},
		{"half a year", date(2026, time.September, 6), Normal, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ClassifyAt(tt.deadline, models.OpenRequirement, now)
			require.Equal(t, tt.band, info.Band)
			require.Equal(t, tt.days, info.DaysRemaining)
		})
	}
}

func TestClassifyAt_TimeOfDayDoesNotSkewToday(t *testing.T) {
	// Дедлайн сегодня не должен считаться просроченным из-за времени суток.
	deadline := date(2026, time.March, 10)
	lateEvening := time.Date(2026, time.March, 10, 23, 59, 0, 0, time.UTC)

	info := ClassifyAt(deadline, models.OpenRequirement, lateEvening)
	require.Equal(t, DueToday, info.Band)
	require.Equal(t, 0, info.DaysRemaining)
}

func TestClassifyAt_ClosedStatuses(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	pastDeadline := date(2026, time.March, 8)

	for _, status := range []models.RequirementStatus{
		models.ReviewingRequirement,
		models.DeliveringRequirement,
		models.CompletedRequirement,
	} {
		info := ClassifyAt(pastDeadline, status, now)
		require.Equal(t, Closed, info.Band, "status %s", status)
	}

	// Те же входы в открытом статусе дают просрочку.
	info := ClassifyAt(pastDeadline, models.OpenRequirement, now)
	require.Equal(t, Overdue, info.Band)
	require.Equal(t, -2, info.DaysRemaining)
}

func TestClassifyAt_Pure(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	deadline := date(2026, time.March, 14)

	first := ClassifyAt(deadline, models.DraftRequirement, now)
	second := ClassifyAt(deadline, models.DraftRequirement, now)
	require.Equal(t, first, second)
}
