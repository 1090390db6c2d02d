package main

import (
	"fmt"
	"strings"
	"time"

	"blitiri.com.ar/go/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Zuo-Peng/slasher/internal/config"
	"github.com/Zuo-Peng/slasher/internal/cut"
	"github.com/Zuo-Peng/slasher/internal/export"
	"github.com/Zuo-Peng/slasher/internal/timeexpr"
)

// durationValue is a pflag.Value accepting every notation timeexpr knows.
type durationValue time.Duration

func newDurationValue(p *time.Duration, def time.Duration) *durationValue {
	*p = def
	return (*durationValue)(p)
}

func (d *durationValue) Set(s string) error {
	v, err := timeexpr.Parse(s)
	if err != nil {
		return err
	}
	*d = durationValue(v)
	return nil
}

func (d *durationValue) Type() string {
	return "duration"
}

func (d *durationValue) String() string {
	if time.Duration(*d) == cut.Forever {
		return ""
	}
	return time.Duration(*d).String()
}

// globals are the persistent flags shared by every subcommand.
type globals struct {
	format     string
	output     string
	resource   string
	match      string
	configPath string
	verbose    bool

	duration time.Duration
	delay    time.Duration
	start    time.Duration
	end      time.Duration

	cfg *config.Config
}

func (g *globals) register(fs *pflag.FlagSet) {
	fs.StringVarP(&g.format, "format", "f", export.DefaultFormat,
		"Output format ("+strings.Join(export.Formats(), ", ")+")")
	fs.StringVarP(&g.output, "output", "o", "", "Output file (default stdout)")
	fs.StringVarP(&g.resource, "resource", "r", export.DefaultResource, "Media file referenced by mlt projects")
	fs.StringVar(&g.match, "match", "", "Count only messages containing this text (case-insensitive)")
	fs.StringVar(&g.configPath, "config", "", "Config file (default ~/.config/slasher/config.toml)")
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "Log debug messages to stderr")

	fs.Var(newDurationValue(&g.duration, 10*time.Second), "duration",
		"Interval length: 10s, 90, 1:30, timedelta(seconds=10)")
	fs.Var(newDurationValue(&g.delay, 0), "delay", "Chat delay the intervals are aligned to")
	fs.Var(newDurationValue(&g.start, 0), "start", "Drop intervals starting before this offset")
	fs.Var(newDurationValue(&g.end, cut.Forever), "end", "Drop intervals starting after this offset")
}

// load reads the config file and uses it for every flag not given on the
// command line.
func (g *globals) load(cmd *cobra.Command) error {
	if g.verbose {
		log.Default.Level = log.Debug
	}

	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	g.cfg = cfg

	flags := cmd.Flags()
	if !flags.Changed("format") {
		g.format = cfg.Format
	}
	if !flags.Changed("resource") {
		g.resource = cfg.Resource
	}
	if !flags.Changed("duration") {
		if g.duration, err = parseSetting("duration", cfg.Duration); err != nil {
			return err
		}
	}
	if !flags.Changed("delay") {
		if g.delay, err = parseSetting("delay", cfg.Delay); err != nil {
			return err
		}
	}

	// Fail on a bad format before fetching any chat.
	if _, err := export.ByName(g.format, g.resource); err != nil {
		return err
	}
	return nil
}

func parseSetting(name, value string) (time.Duration, error) {
	d, err := timeexpr.Parse(value)
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", name, err)
	}
	return d, nil
}
