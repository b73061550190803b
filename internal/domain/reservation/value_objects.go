package reservation

import (
	"errors"
	"time"
)

var ErrInvalidTimeSpan = errors.New("time span must have both endpoints and start before end")

// TimeSpan is a half-open interval [start,end): the start instant is
// included, the end instant is not, so adjacent spans may share a
// boundary without overlapping.
type TimeSpan struct {
	start time.Time
	end   time.Time
}

func NewTimeSpan(start, end time.Time) (TimeSpan, error) {
	if start.IsZero() || end.IsZero() {
		return TimeSpan{}, ErrInvalidTimeSpan
	}
	if !start.Before(end) {
		return TimeSpan{}, ErrInvalidTimeSpan
	}

	return TimeSpan{
		start: start,
		end:   end,
	}, nil
}

func (ts TimeSpan) Start() time.Time {
	return ts.start
}

func (ts TimeSpan) End() time.Time {
	return ts.end
}

func (ts TimeSpan) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

func (ts TimeSpan) IsZero() bool {
	return ts.start.IsZero() && ts.end.IsZero()
}

// Overlaps reports whether two spans intersect in at least one instant.
// Touching endpoints (ts.end == other.start) do not overlap.
func (ts TimeSpan) Overlaps(other TimeSpan) bool {
	return ts.start.Before(other.end) && other.start.Before(ts.end)
}

type Note struct {
	value string
}

func NewNote(value string) Note {
	return Note{value: value}
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}
