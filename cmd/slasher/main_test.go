package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Zuo-Peng/slasher/internal/chat"
	"github.com/Zuo-Peng/slasher/internal/cut"
)

const chatFixture = `{"time_in_seconds": 1, "message": "hi", "author": {"name": "ana"}}
{"time_in_seconds": 2.7, "message": "hello"}
{"time_in_seconds": 3, "message": "o7"}
{"time_in_seconds": 11, "message": "pog"}
{"time_in_seconds": 12, "message": "Pog champ"}
{"time_in_seconds": null, "message": "before the stream"}
{"time_in_seconds": 61, "message": "POG"}
`

// setup isolates the test from the user's config and returns the path of a
// chat fixture holding intervals {0: 3, 10: 2, 60: 1}.
func setup(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	stdoutTerminal = func() (bool, int) { return false, 0 }

	path := filepath.Join(t.TempDir(), "chat.jsonl")
	if err := os.WriteFile(path, []byte(chatFixture), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCommands(t *testing.T) {
	path := setup(t)

	cases := []struct {
		args []string
		want string
	}{
		// Average is 2; the default multiplier wants 4.
		{[]string{"filter", "-f", "ffsilencer", path}, ""},
		{[]string{"filter", "-f", "ffsilencer", "-m", "1", path}, "0 10\n10 10\n"},
		{[]string{"filter", "-f", "ffsilencer", "-m", "1.5", path}, "0 10\n"},

		{[]string{"top", "-f", "ffsilencer", path}, "0 10\n10 10\n60 10\n"},
		{[]string{"top", "-f", "ffsilencer", "-a", "1", path}, "0 10\n"},
		{[]string{"top", "-f", "ffsilencer", "-a", "0", path}, ""},

		{[]string{"clip", "-f", "ffsilencer", "--start", "10", "--end", "1:00", path}, "10 10\n60 10\n"},
		{[]string{"clip", "-f", "ffsilencer", "--start", "10s", path}, "10 10\n60 10\n"},
		{[]string{"clip", "-f", "ffsilencer", "--end", "timedelta(seconds=59)", path}, "0 10\n10 10\n"},
		// Clip applies before top.
		{[]string{"top", "-f", "ffsilencer", "-a", "1", "--start", "5", path}, "10 10\n"},

		{[]string{"top", "-f", "ffsilencer", "--duration", "timedelta(minutes=1)", path}, "0 60\n60 60\n"},
		{[]string{"top", "-f", "ffsilencer", "--duration", "1m", "--delay", "2", path}, "2 60\n"},

		{[]string{"top", "-f", "ffsilencer", "--match", "POG", path}, "10 10\n60 10\n"},

		{[]string{"top", "-f", "ffmpeg", "-a", "1", path},
			"[0:v]trim=start=0:end=10,setpts=PTS-STARTPTS,format=yuv420p[0v];\n" +
				"[0:a]atrim=start=0:end=10,asetpts=PTS-STARTPTS[0a];\n" +
				"[0v][0a]concat=n=1:v=1:a=1[outv][outa]\n"},
	}
	for _, c := range cases {
		got, _, err := run(t, c.args...)
		if err != nil {
			t.Errorf("%v: %v", c.args, err)
			continue
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("%v mismatch (-want +got):\n%s", c.args, diff)
		}
	}
}

func TestDefaultFormatIsMLT(t *testing.T) {
	path := setup(t)

	got, _, err := run(t, "top", "-a", "1", "-r", "stream.mkv", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{
		`<mlt title="VODinator verson 2021.07.14">`,
		`<property name="resource">stream.mkv</property>`,
		`in="0:00:00.000"`,
	} {
		if !strings.Contains(got, s) {
			t.Errorf("output lacks %q:\n%s", s, got)
		}
	}
}

func TestErrors(t *testing.T) {
	path := setup(t)

	invalid := [][]string{
		{"top", "--amount=-1", path},
		{"top", "--duration", "0.5", path},
		{"clip", "--start", "10", "--end", "5", path},
		{"filter", "-m", "-1", path},
		{"top", "-f", "bogus", path},
	}
	for _, args := range invalid {
		if _, _, err := run(t, args...); !errors.Is(err, cut.ErrInvalidParameter) {
			t.Errorf("%v: expected ErrInvalidParameter, got %v", args, err)
		}
	}

	var fe *chat.FetchError
	if _, _, err := run(t, "top", filepath.Join(t.TempDir(), "missing.jsonl")); !errors.As(err, &fe) {
		t.Errorf("missing source: expected FetchError, got %v", err)
	}
	if _, _, err := run(t, "top", "--match", "nobody says this", path); !errors.As(err, &fe) {
		t.Errorf("no matching messages: expected FetchError, got %v", err)
	}

	others := [][]string{
		{"top"},
		{"top", path, path},
		{"top", "--duration", "soon", path},
		{"top", "--config", filepath.Join(t.TempDir(), "missing.toml"), path},
	}
	for _, args := range others {
		if _, _, err := run(t, args...); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
}

func TestOutputFile(t *testing.T) {
	path := setup(t)
	out := filepath.Join(t.TempDir(), "cuts.txt")

	stdout, stderr, err := run(t, "top", "-f", "ffsilencer", "-a", "1", "-o", out, path)
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "" {
		t.Errorf("stdout should be empty, got %q", stdout)
	}
	if !strings.Contains(stderr, "Wrote 1 intervals to "+out) {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if b, _ := os.ReadFile(out); string(b) != "0 10\n" {
		t.Errorf("output file holds %q", b)
	}

	// A failed run leaves the previous output alone.
	if _, _, err := run(t, "top", "-f", "ffsilencer", "-o", out, path+".missing"); err == nil {
		t.Fatal("expected an error")
	}
	if b, _ := os.ReadFile(out); string(b) != "0 10\n" {
		t.Errorf("output file was touched: %q", b)
	}
}

func TestConfigFile(t *testing.T) {
	path := setup(t)
	cfg := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(cfg, []byte(`
format = "ffsilencer"
amount = 1
multiplier = 1.0
duration = "10s"
`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	got, _, err := run(t, "top", "--config", cfg, path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "0 10\n" {
		t.Errorf("config defaults: got %q", got)
	}

	got, _, err = run(t, "filter", "--config", cfg, path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "0 10\n10 10\n" {
		t.Errorf("config multiplier: got %q", got)
	}

	// Flags win over the file.
	got, _, err = run(t, "top", "--config", cfg, "-a", "2", "-f", "json", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `"intervals"`) || !strings.Contains(got, `"start": 10`) {
		t.Errorf("flag overrides: got %s", got)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(bad, []byte(`delay = "later"`), 0644)
	if _, _, err := run(t, "top", "--config", bad, path); err == nil {
		t.Errorf("expected an error for a bad delay in the config")
	}
}

func TestStats(t *testing.T) {
	path := setup(t)

	got, _, err := run(t, "stats", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{
		"Messages:  6\n",
		"Intervals: 3\n",
		"Average:   2\n",
		"Peak:      3 at 0:00:00.000\n",
		"Span:      1m10s\n",
	} {
		if !strings.Contains(got, s) {
			t.Errorf("stats lack %q:\n%s", s, got)
		}
	}
}

func TestPlotText(t *testing.T) {
	path := setup(t)

	got, _, err := run(t, "plot", "-m", "1", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"> 0:00:00 │", "> 0:00:10 │", "  0:01:00 │", "threshold 2"} {
		if !strings.Contains(got, s) {
			t.Errorf("chart lacks %q:\n%s", s, got)
		}
	}
	if strings.Contains(got, "\033[") {
		t.Errorf("chart for a pipe has escape codes")
	}
}

func TestDoctor(t *testing.T) {
	path := setup(t)

	got, _, err := run(t, "doctor", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{
		"NOT FOUND, using defaults",
		"Format: mlt, duration 10s, delay 0s",
		"=== Downloader ===",
		"Messages:  7 (6 counted)",
		"Intervals: 3 of 10s",
		"Peak:      3 at 0:00:00.000",
	} {
		if !strings.Contains(got, s) {
			t.Errorf("doctor output lacks %q:\n%s", s, got)
		}
	}

	// A broken source is reported, not fatal.
	got, _, err = run(t, "doctor", path+".missing")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Error: fetch chat from") {
		t.Errorf("doctor output lacks the source error:\n%s", got)
	}
}
