// Package cut buckets chat messages into fixed-width intervals and selects
// the busiest ones.
//
// A Cut is an immutable value: every operator returns a new Cut and leaves
// its receiver untouched, so cuts can be chained freely:
//
//	c, _ := cut.Build(url, msgs, 10*time.Second, 0)
//	c, _ = c.Clip(3*time.Hour, 4*time.Hour)
//	c = c.Top(10)
package cut

import (
	"errors"
	"math"
	"time"
)

var (
	// ErrEmptyHistogram is returned by operations that need at least one
	// interval, such as Average and Filter.
	ErrEmptyHistogram = errors.New("histogram has no intervals")

	// ErrInvalidParameter is wrapped by every argument validation failure.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Forever is the unbounded end for Clip.
const Forever = time.Duration(math.MaxInt64)

// Interval is a bucket starting at Start seconds holding Count messages.
type Interval struct {
	Start int64 `json:"start"`
	Count int   `json:"count"`
}

// Histogram is a sequence of intervals. Every histogram held by a Cut is
// sorted by Start with unique keys.
type Histogram []Interval

// Keys returns the interval starts in order.
func (h Histogram) Keys() []int64 {
	keys := make([]int64, len(h))
	for i, iv := range h {
		keys[i] = iv.Start
	}
	return keys
}

// Total returns the sum of all counts.
func (h Histogram) Total() int {
	n := 0
	for _, iv := range h {
		n += iv.Count
	}
	return n
}

func (h Histogram) clone() Histogram {
	out := make(Histogram, len(h))
	copy(out, h)
	return out
}

// Cut is the session state threaded through the pipeline: where the chat
// came from, its histogram and the bucketing parameters.
type Cut struct {
	source    string
	histogram Histogram
	duration  time.Duration
	delay     time.Duration
}

// Source identifies where the chat came from, usually a URL or a path.
func (c Cut) Source() string {
	return c.source
}

// Histogram returns a copy of the intervals, ascending by start.
func (c Cut) Histogram() Histogram {
	return c.histogram.clone()
}

// Len returns the number of intervals.
func (c Cut) Len() int {
	return len(c.histogram)
}

// Duration is the interval width, a whole number of seconds.
func (c Cut) Duration() time.Duration {
	return c.duration
}

// DurationSeconds is Duration in seconds, as used by the exporters.
func (c Cut) DurationSeconds() int64 {
	return int64(c.duration / time.Second)
}

// Delay is the chat offset the intervals are aligned to.
func (c Cut) Delay() time.Duration {
	return c.delay
}

// with returns a copy of c holding h.
func (c Cut) with(h Histogram) Cut {
	c.histogram = h
	return c
}
