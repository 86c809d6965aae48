package liveauction

import (
	"fmt"
	"time"
)

// Countdown is the time remaining until an auction's end, shown as HH:MM:SS.
// Minutes and Seconds stay within 0..59; Hours is unbounded.
type Countdown struct {
	Hours   int
	Minutes int
	Seconds int
}

// CountdownUntil builds the countdown from now to end. A nil or past end gives zero.
func CountdownUntil(end *time.Time, now time.Time) Countdown {
	if end == nil {
		return Countdown{}
	}
	remaining := end.Sub(now)
	if remaining <= 0 {
		return Countdown{}
	}
	total := int(remaining / time.Second)
	return Countdown{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// Tick removes one second. Seconds borrow from minutes only when they are
// already zero, minutes from hours likewise. Zero stays zero.
func (c Countdown) Tick() Countdown {
	switch {
	case c.Seconds > 0:
		c.Seconds--
	case c.Minutes > 0:
		c.Minutes--
		c.Seconds = 59
	case c.Hours > 0:
		c.Hours--
		c.Minutes = 59
		c.Seconds = 59
	}
	return c
}

// IsZero reports whether the countdown has run out
func (c Countdown) IsZero() bool {
	return c.Hours == 0 && c.Minutes == 0 && c.Seconds == 0
}

func (c Countdown) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hours, c.Minutes, c.Seconds)
}
