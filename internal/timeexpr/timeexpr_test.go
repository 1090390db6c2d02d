package timeexpr

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		// Go durations.
		{"10s", 10 * time.Second},
		{"1h30m", 90 * time.Minute},
		{"-5s", -5 * time.Second},
		{"1500ms", 1500 * time.Millisecond},

		// Seconds.
		{"90", 90 * time.Second},
		{" 2.5 ", 2500 * time.Millisecond},
		{"0", 0},

		// Clock.
		{"1:02:03", time.Hour + 2*time.Minute + 3*time.Second},
		{"02:03", 2*time.Minute + 3*time.Second},
		{"0:10.5", 10500 * time.Millisecond},
		{"90:00", 90 * time.Minute},
		{"3:00:00", 3 * time.Hour},

		// timedelta.
		{"timedelta()", 0},
		{"timedelta(seconds=10)", 10 * time.Second},
		{"timedelta(minutes=1)", time.Minute},
		{"timedelta(hours=3, minutes=30)", 3*time.Hour + 30*time.Minute},
		{"timedelta(hours=1.5)", 90 * time.Minute},
		{"timedelta(0, 30)", 30 * time.Second},
		{"timedelta(1)", 24 * time.Hour},
		{"timedelta(0, 0, 0, 500)", 500 * time.Millisecond},
		{"timedelta(0, 5, minutes=2)", 2*time.Minute + 5*time.Second},
		{"timedelta(weeks=1)", 7 * 24 * time.Hour},
		{"timedelta(seconds=30,)", 30 * time.Second},
		{"datetime.timedelta(seconds=1)", time.Second},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"ten seconds",
		"10 parsecs",
		"1:2:3:4",
		"1:61:00",
		"0:75",
		"a:00",
		"-1:00",
		"NaN",
		"inf",
		"1e300",
		"timedelta(",
		"timedelta(fortnights=1)",
		"timedelta(seconds=x)",
		"timedelta(seconds=1, seconds=2)",
		"timedelta(1, days=2)",
		"timedelta(minutes=1, 5)",
		"timedelta(,1)",
		"timedelta(1, 2, 3, 4, 5, 6, 7, 8)",
		"__import__('os')",
	}
	for _, in := range cases {
		d, err := Parse(in)
		if err == nil {
			t.Errorf("Parse(%q) = %s, expected an error", in, d)
			continue
		}
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("Parse(%q): error %v does not wrap ErrSyntax", in, err)
		}
	}
}
