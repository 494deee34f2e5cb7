package marketdata

import (
	"time"

	"squeeze-scanner/internal/domain"
)

// ResampleWeekly aggregates ascending daily bars into Friday-anchored weekly
// bars: open from the first session of the week, high/low from the extremes,
// close from the last session, volume summed. Weeks with no sessions simply
// produce no bar. The final bucket may be a partial week.
func ResampleWeekly(daily []domain.Bar) []domain.Bar {
	if len(daily) == 0 {
		return nil
	}

	weekly := make([]domain.Bar, 0, len(daily)/5+1)
	var cur domain.Bar
	var curWeek time.Time
	open := false

	for _, d := range daily {
		week := weekEnd(d.Time)
		if !open || !week.Equal(curWeek) {
			if open {
				weekly = append(weekly, cur)
			}
			curWeek = week
			cur = domain.Bar{
				Time:   week,
				Open:   d.Open,
				High:   d.High,
				Low:    d.Low,
				Close:  d.Close,
				Volume: d.Volume,
			}
			open = true
			continue
		}
		if d.High > cur.High {
			cur.High = d.High
		}
		if d.Low < cur.Low {
			cur.Low = d.Low
		}
		cur.Close = d.Close
		cur.Volume += d.Volume
	}
	weekly = append(weekly, cur)
	return weekly
}

// weekEnd returns the Friday that closes the week containing t. Saturday and
// Sunday sessions roll forward into the following week.
func weekEnd(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(time.Friday) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset)
}
