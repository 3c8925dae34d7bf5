package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/catalog-backend/internal/models"
)

func TestActivityWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

	start, keys := ActivityWindow(now, 7, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, []string{
		"2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07",
		"2024-03-08", "2024-03-09", "2024-03-10",
	}, keys)
}

func TestActivityWindowUsesLocation(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 23:30 UTC is already the next day in Berlin
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)

	start, keys := ActivityWindow(now, 1, berlin)

	assert.Equal(t, []string{"2024-03-11"}, keys)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, berlin), start)
}

func TestFillActivity(t *testing.T) {
	window := []string{"2024-03-08", "2024-03-09", "2024-03-10"}
	raw := []models.DailyCount{
		{Date: "2024-03-01", Count: 5},
		{Date: "2024-03-10", Count: 1},
		{Date: "2024-03-08", Count: 2},
	}

	filled := FillActivity(window, raw)

	assert.Equal(t, []models.DailyCount{
		{Date: "2024-03-08", Count: 2},
		{Date: "2024-03-09", Count: 0},
		{Date: "2024-03-10", Count: 1},
	}, filled)
}
