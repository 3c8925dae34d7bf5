// internal/services/stats.go
package services

import (
	"time"

	"github.com/javajoker/catalog-backend/internal/models"
)

// ActivityWindow returns the start of the first day and the day keys of the
// trailing window ending today, oldest first.
func ActivityWindow(now time.Time, days int, loc *time.Location) (time.Time, []string) {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	start := today.AddDate(0, 0, -(days - 1))

	keys := make([]string, 0, days)
	for i := 0; i < days; i++ {
		keys = append(keys, start.AddDate(0, 0, i).Format(models.DayLayout))
	}
	return start, keys
}

// FillActivity lays the grouped store result over the window, emitting a
// zero count for days without creations and dropping days outside it.
func FillActivity(window []string, raw []models.DailyCount) []models.DailyCount {
	counts := make(map[string]int64, len(raw))
	for _, row := range raw {
		counts[row.Date] += row.Count
	}

	filled := make([]models.DailyCount, 0, len(window))
	for _, day := range window {
		filled = append(filled, models.DailyCount{Date: day, Count: counts[day]})
	}
	return filled
}
