package cut

import (
	"fmt"
	"math"
	"sort"
	"time"

	"blitiri.com.ar/go/log"

	"github.com/Zuo-Peng/slasher/internal/chat"
)

// Build buckets msgs into intervals of duration seconds aligned to delay.
//
// Both durations are truncated to whole seconds. A message is dropped when
// it has no offset or when its floored offset t satisfies t-delay <= 0; this
// also drops anything sent in the very first second of the stream.
// Otherwise it is counted in the interval starting at
// t - ((t-delay) mod duration).
func Build(source string, msgs []chat.Message, duration, delay time.Duration) (Cut, error) {
	d := int64(duration / time.Second)
	if d < 1 {
		return Cut{}, fmt.Errorf("%w: duration must be at least one second, got %s", ErrInvalidParameter, duration)
	}
	if delay < 0 {
		return Cut{}, fmt.Errorf("%w: delay must not be negative, got %s", ErrInvalidParameter, delay)
	}
	dl := int64(delay / time.Second)

	counts := map[int64]int{}
	dropped := 0
	for _, m := range msgs {
		secs, ok := m.Seconds()
		if !ok {
			dropped++
			continue
		}

		f := math.Floor(secs)
		if f-float64(dl) <= 0 || f > math.MaxInt64/2 {
			dropped++
			continue
		}
		t := int64(f)

		key := t - (t-dl)%d
		counts[key]++
	}
	log.Debugf("bucketed %d messages into %d intervals, dropped %d",
		len(msgs)-dropped, len(counts), dropped)

	h := make(Histogram, 0, len(counts))
	for start, n := range counts {
		h = append(h, Interval{Start: start, Count: n})
	}
	sort.Slice(h, func(i, j int) bool {
		return h[i].Start < h[j].Start
	})

	return Cut{
		source:    source,
		histogram: h,
		duration:  time.Duration(d) * time.Second,
		delay:     time.Duration(dl) * time.Second,
	}, nil
}
