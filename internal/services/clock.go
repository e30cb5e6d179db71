package services

import (
	"time"

	"github.com/AnshRaj112/wordstreak-backend/internal/models"
)

// Clock supplies "today". It is read once per operation at the service edge;
// everything below takes the date as a parameter.
type Clock interface {
	Today() models.Date
}

// SystemClock reads the wall clock in a fixed location (local time when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Today() models.Date {
	now := time.Now()
	if c.Location != nil {
		now = now.In(c.Location)
	}
	return models.DateOf(now)
}

// FixedClock always returns the same date.
type FixedClock struct {
	Date models.Date
}

func (c *FixedClock) Today() models.Date { return c.Date }

// Advance moves the clock forward by n days.
func (c *FixedClock) Advance(n int) { c.Date = c.Date.AddDays(n) }
