package osc

import (
	"time"
)

const (
	// secondsFrom1900To1970 is the offset between the NTP and Unix epochs.
	secondsFrom1900To1970 = 2208988800

	// immediately is the special time tag meaning "now".
	immediately = Timetag(1)
)

// Timetag represents an OSC Time Tag.
// An OSC Time Tag is defined as follows:
// Time tags are represented by a 64 bit fixed point number. The first 32 bits
// specify the number of seconds since midnight on January 1, 1900, and the
// last 32 bits specify fractional parts of a second to a precision of about
// 200 picoseconds. This is the representation used by Internet NTP timestamps.
type Timetag uint64

// NewImmediateTimetag returns the time tag meaning "immediately".
func NewImmediateTimetag() Timetag {
	return immediately
}

// NewTimetagFromTime returns a new OSC time tag object from a time.Time.
func NewTimetagFromTime(timeStamp time.Time) Timetag {
	return timeToTimetag(timeStamp)
}

// Time returns the time.
func (t Timetag) Time() time.Time {
	return timetagToTime(t)
}

// ExpiresIn calculates the duration until the time tag is due. It returns
// zero for the immediate tag and for tags in the past.
func (t Timetag) ExpiresIn() time.Duration {
	if t <= immediately {
		return 0
	}

	d := time.Until(timetagToTime(t))
	if d <= 0 {
		return 0
	}

	return d
}

// timeToTimetag converts the given time to an OSC time tag.
func timeToTimetag(t time.Time) Timetag {
	secs := uint64(t.Unix()+secondsFrom1900To1970) << 32
	frac := (uint64(t.Nanosecond()) << 32) / uint64(time.Second)
	return Timetag(secs + frac)
}

// timetagToTime converts the given timetag to a time object.
func timetagToTime(timetag Timetag) time.Time {
	secs := int64(timetag>>32) - secondsFrom1900To1970
	nsec := (uint64(timetag&0xffffffff) * uint64(time.Second)) >> 32
	return time.Unix(secs, int64(nsec))
}
