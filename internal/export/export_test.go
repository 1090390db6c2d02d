package export

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Zuo-Peng/slasher/internal/cut"
)

func mustCut(t *testing.T, h cut.Histogram) cut.Cut {
	t.Helper()
	c, err := cut.New("https://example.com/videos/1", h, 10*time.Second, 0)
	if err != nil {
		t.Fatalf("cut.New: %v", err)
	}
	return c
}

func export(t *testing.T, e Exporter, c cut.Cut) string {
	t.Helper()
	var buf bytes.Buffer
	if err := e.Export(&buf, c); err != nil {
		t.Fatalf("Export: %v", err)
	}
	return buf.String()
}

var twoIntervals = cut.Histogram{{Start: 0, Count: 3}, {Start: 10, Count: 2}}

func TestSilence(t *testing.T) {
	got := export(t, ExporterFunc(Silence), mustCut(t, twoIntervals))
	if want := "0 10\n10 10\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if got := export(t, ExporterFunc(Silence), mustCut(t, nil)); got != "" {
		t.Errorf("empty cut: got %q, want nothing", got)
	}
}

func TestFFmpeg(t *testing.T) {
	got := export(t, ExporterFunc(FFmpeg), mustCut(t, twoIntervals))
	want := "[0:v]trim=start=0:end=10,setpts=PTS-STARTPTS,format=yuv420p[0v];\n" +
		"[0:a]atrim=start=0:end=10,asetpts=PTS-STARTPTS[0a];\n" +
		"[0:v]trim=start=10:end=20,setpts=PTS-STARTPTS,format=yuv420p[1v];\n" +
		"[0:a]atrim=start=10:end=20,asetpts=PTS-STARTPTS[1a];\n" +
		"[0v][0a][1v][1a]concat=n=2:v=1:a=1[outv][outa]\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestFFmpegEmpty(t *testing.T) {
	got := export(t, ExporterFunc(FFmpeg), mustCut(t, nil))
	if want := "concat=n=0:v=1:a=1[outv][outa]\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMLT(t *testing.T) {
	got := export(t, &MLT{}, mustCut(t, twoIntervals))
	want := `<?xml version="1.0" encoding="UTF-8"?>
<mlt title="VODinator verson 2021.07.14">
  <producer id="producer0">
    <property name="resource">vod.mp4</property>
  </producer>
  <playlist id="playlist0">
    <entry in="0:00:00.000" out="0:00:10.000" producer="producer0"></entry>
    <entry in="0:00:10.000" out="0:00:20.000" producer="producer0"></entry>
  </playlist>
</mlt>
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestMLTEscapesResource(t *testing.T) {
	resource := `Tom & Jerry <"live">.mp4`
	got := export(t, &MLT{Resource: resource}, mustCut(t, twoIntervals))
	if strings.Contains(got, "& Jerry") || strings.Contains(got, "<\"live") {
		t.Errorf("resource not escaped:\n%s", got)
	}

	// And it must round-trip through a real parser.
	var doc mltDocument
	if err := xml.Unmarshal([]byte(got), &doc); err != nil {
		t.Fatalf("output is not well-formed: %v", err)
	}
	if v := doc.Producer.Properties[0].Value; v != resource {
		t.Errorf("resource = %q, want %q", v, resource)
	}
	if len(doc.Playlist.Entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(doc.Playlist.Entries))
	}
}

func TestMLTEmpty(t *testing.T) {
	got := export(t, &MLT{Resource: "a.mkv"}, mustCut(t, nil))
	if !strings.Contains(got, `<playlist id="playlist0"></playlist>`) {
		t.Errorf("expected an empty playlist:\n%s", got)
	}
	if !strings.Contains(got, `<property name="resource">a.mkv</property>`) {
		t.Errorf("expected the resource:\n%s", got)
	}
}

func TestTimestamp(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "0:00:00.000"},
		{10, "0:00:10.000"},
		{61, "0:01:01.000"},
		{3600, "1:00:00.000"},
		{3*3600 + 25*60 + 9, "3:25:09.000"},
		{27 * 3600, "27:00:00.000"},
	}
	for _, c := range cases {
		if got := Timestamp(c.seconds); got != c.want {
			t.Errorf("Timestamp(%d) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestJSON(t *testing.T) {
	got := export(t, ExporterFunc(JSON), mustCut(t, twoIntervals))

	var decoded jsonCut
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, got)
	}
	want := jsonCut{
		Source:    "https://example.com/videos/1",
		Duration:  10,
		Delay:     0,
		Intervals: twoIntervals,
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestExporterFunc(t *testing.T) {
	var got cut.Cut
	e := ExporterFunc(func(w io.Writer, c cut.Cut) error {
		got = c
		_, err := io.WriteString(w, "ok")
		return err
	})
	c := mustCut(t, twoIntervals)
	if out := export(t, e, c); out != "ok" {
		t.Errorf("Export wrote %q, want \"ok\"", out)
	}
	if got.Len() != 2 {
		t.Errorf("function saw %d intervals, want 2", got.Len())
	}

	boom := errors.New("boom")
	e = func(io.Writer, cut.Cut) error { return boom }
	if err := e.Export(io.Discard, c); !errors.Is(err, boom) {
		t.Errorf("Export() = %v, want %v", err, boom)
	}
}

func TestByName(t *testing.T) {
	c := mustCut(t, twoIntervals)
	for _, name := range Formats() {
		e, err := ByName(name, "")
		if err != nil {
			t.Errorf("ByName(%q): %v", name, err)
			continue
		}
		// Deterministic output.
		if a, b := export(t, e, c), export(t, e, c); a != b {
			t.Errorf("%s: two exports differ", name)
		}
	}

	e, err := ByName("mlt", "")
	if err != nil {
		t.Fatal(err)
	}
	if m, ok := e.(*MLT); !ok || m.Resource != DefaultResource {
		t.Errorf("mlt exporter = %#v, want resource %q", e, DefaultResource)
	}

	if _, err := ByName("edl", ""); !errors.Is(err, cut.ErrInvalidParameter) {
		t.Errorf("unknown format: expected ErrInvalidParameter, got %v", err)
	}
}
