package format

import (
	"time"

	"github.com/gertd/go-pluralize"
)

var plural = pluralize.NewClient()

// Duration returns the duration rounded to its largest unit, such as "3 hours" or "1 day",
// for use in cooldown messages.
func Duration(d time.Duration) string {
	d = d.Round(time.Second)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if days >= 1 {
		if h >= 12 {
			days++
		}
		return unit("day", days)
	}
	if h >= 1 {
		if m > 30 {
			h++
		}
		if h == 24 {
			return unit("day", 1)
		}
		return unit("hour", h)
	}
	if m >= 1 {
		if s > 30 {
			m++
		}
		if m == 60 {
			return unit("hour", 1)
		}
		return unit("minute", m)
	}
	if s <= 1 {
		return unit("second", 1)
	}
	return unit("second", s)
}

// unit returns the count followed by the word, pluralized as needed.
func unit(word string, count time.Duration) string {
	return plural.Pluralize(word, int(count), true)
}
