package cut

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// New returns a Cut over an existing histogram. The histogram must be sorted
// by start with unique, non-negative keys and positive counts; it is copied.
func New(source string, h Histogram, duration, delay time.Duration) (Cut, error) {
	if duration < time.Second {
		return Cut{}, fmt.Errorf("%w: duration must be at least one second, got %s", ErrInvalidParameter, duration)
	}
	if delay < 0 {
		return Cut{}, fmt.Errorf("%w: delay must not be negative, got %s", ErrInvalidParameter, delay)
	}
	for i, iv := range h {
		if iv.Start < 0 || iv.Count < 1 {
			return Cut{}, fmt.Errorf("%w: interval %d: %+v", ErrInvalidParameter, i, iv)
		}
		if i > 0 && h[i-1].Start >= iv.Start {
			return Cut{}, fmt.Errorf("%w: intervals out of order at %d", ErrInvalidParameter, i)
		}
	}
	return Cut{
		source:    source,
		histogram: h.clone(),
		duration:  duration.Truncate(time.Second),
		delay:     delay.Truncate(time.Second),
	}, nil
}

// Average returns the floored mean number of messages per interval.
func (c Cut) Average() (int, error) {
	if len(c.histogram) == 0 {
		return 0, ErrEmptyHistogram
	}
	return c.histogram.Total() / len(c.histogram), nil
}

// Filter keeps the intervals holding at least floor(Average() * multiplier)
// messages, in their original order.
//
// Filtering a filtered cut again is not guaranteed to be a no-op: the
// average of the survivors is usually higher.
func (c Cut) Filter(multiplier float64) (Cut, error) {
	if math.IsNaN(multiplier) || math.IsInf(multiplier, 0) || multiplier < 0 {
		return Cut{}, fmt.Errorf("%w: multiplier must be a non-negative number, got %v", ErrInvalidParameter, multiplier)
	}
	avg, err := c.Average()
	if err != nil {
		return Cut{}, err
	}
	threshold := int(math.Floor(float64(avg) * multiplier))

	var kept Histogram
	for _, iv := range c.histogram {
		if iv.Count >= threshold {
			kept = append(kept, iv)
		}
	}
	return c.with(kept.clone()), nil
}

// Top keeps the amount busiest intervals, back in chronological order. Ties
// go to the earlier interval. amount <= 0 yields an empty cut.
func (c Cut) Top(amount int) Cut {
	if amount <= 0 {
		return c.with(Histogram{})
	}

	byCount := c.histogram.clone()
	sort.SliceStable(byCount, func(i, j int) bool {
		return byCount[i].Count > byCount[j].Count
	})
	if amount < len(byCount) {
		byCount = byCount[:amount]
	}
	sort.Slice(byCount, func(i, j int) bool {
		return byCount[i].Start < byCount[j].Start
	})
	return c.with(byCount)
}

// Clip keeps the intervals starting between start and end, both inclusive,
// in whole seconds. Use Forever for an open end.
func (c Cut) Clip(start, end time.Duration) (Cut, error) {
	if start < 0 {
		return Cut{}, fmt.Errorf("%w: clip start must not be negative, got %s", ErrInvalidParameter, start)
	}
	if end < start {
		return Cut{}, fmt.Errorf("%w: clip end %s is before start %s", ErrInvalidParameter, end, start)
	}
	from := int64(start / time.Second)
	to := int64(end / time.Second)

	var kept Histogram
	for _, iv := range c.histogram {
		if iv.Start >= from && iv.Start <= to {
			kept = append(kept, iv)
		}
	}
	return c.with(kept.clone()), nil
}
