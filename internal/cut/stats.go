package cut

import (
	"fmt"
	"time"
)

// Stats summarizes a cut. Peak is the earliest of the busiest intervals.
type Stats struct {
	Messages  int
	Intervals int
	Average   int
	Peak      Interval
	Span      time.Duration // from the first interval start to the last interval end
}

func (s Stats) String() string {
	return fmt.Sprintf("messages=%d intervals=%d average=%d peak=%d@%ds span=%s",
		s.Messages, s.Intervals, s.Average, s.Peak.Count, s.Peak.Start, s.Span)
}

// Stats never fails; an empty cut has zero stats.
func (c Cut) Stats() Stats {
	var s Stats
	s.Intervals = len(c.histogram)
	s.Messages = c.histogram.Total()
	if s.Intervals == 0 {
		return s
	}
	s.Average = s.Messages / s.Intervals
	for _, iv := range c.histogram {
		if iv.Count > s.Peak.Count {
			s.Peak = iv
		}
	}
	first := c.histogram[0].Start
	last := c.histogram[len(c.histogram)-1].Start
	s.Span = time.Duration(last-first)*time.Second + c.duration
	return s
}
