// Package deadline содержит единственную реализацию классификации
// срочности дедлайна. Все места показа и сортировки обязаны пользоваться
// этим пакетом, чтобы две точки вызова никогда не расходились.
package deadline

import (
	"time"

	"github.com/TheSummerRain/wutongjiebang/internal/models"
)

type Band string // Дискретная категория срочности

const (
	Closed   Band = "CLOSED"    // Окно приёма заявок уже не действует
	Overdue  Band = "OVERDUE"   // Дедлайн в прошлом
	DueToday Band = "DUE_TODAY" // Дедлайн сегодня
	Urgent   Band = "URGENT"    // 1..7 дней до дедлайна
	Normal   Band = "NORMAL"    // Больше недели до дедлайна
)

// Info - результат классификации дедлайна.
type Info struct {
	Band          Band `json:"band"`
	DaysRemaining int  `json:"daysRemaining"`
}

// Classify определяет категорию срочности относительно текущего дня.
func Classify(deadline time.Time, status models.RequirementStatus) Info {
	return ClassifyAt(deadline, status, time.Now())
}

// ClassifyAt - чистая форма Classify с явной точкой отсчёта.
// После стадии приёма заявок дедлайн теряет смысл окна подачи,
// поэтому поздние статусы всегда дают Closed независимо от даты.
func ClassifyAt(deadline time.Time, status models.RequirementStatus, now time.Time) Info {
	switch status {
	case models.ReviewingRequirement, models.DeliveringRequirement, models.CompletedRequirement:
		return Info{Band: Closed}
	}

	// Обе даты приводятся к полуночи, чтобы время суток не давало
	// ложный отрицательный остаток в день дедлайна.
	days := int(midnight(deadline).Sub(midnight(now)).Hours() / 24)

	var band Band
	switch {
	case days < 0:
		band = Overdue
	case days == 0:
		band = DueToday
	case days <= 7:
		band = Urgent
	default:
		band = Normal
	}
	return Info{Band: band, DaysRemaining: days}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
