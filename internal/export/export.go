// Package export writes a cut as editing instructions for video tools.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Zuo-Peng/slasher/internal/cut"
)

// Exporter writes c to w in one synchronous pass. The same cut always
// produces the same bytes.
type Exporter interface {
	Export(w io.Writer, c cut.Cut) error
}

// ExporterFunc lets a plain function serve as an Exporter.
type ExporterFunc func(io.Writer, cut.Cut) error

// Export calls fn(w, c).
func (fn ExporterFunc) Export(w io.Writer, c cut.Cut) error {
	return fn(w, c)
}

// DefaultResource is the media file referenced by MLT projects.
const DefaultResource = "vod.mp4"

// DefaultFormat is used when no format is configured.
const DefaultFormat = "mlt"

var formats = map[string]func(resource string) Exporter{
	"mlt": func(resource string) Exporter {
		return &MLT{Resource: resource}
	},
	"ffmpeg": func(string) Exporter {
		return ExporterFunc(FFmpeg)
	},
	"ffsilencer": func(string) Exporter {
		return ExporterFunc(Silence)
	},
	"json": func(string) Exporter {
		return ExporterFunc(JSON)
	},
}

// Formats lists the names accepted by ByName.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName returns the exporter for a format name. resource only matters for
// mlt.
func ByName(name, resource string) (Exporter, error) {
	newExporter, ok := formats[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)",
			cut.ErrInvalidParameter, name, strings.Join(Formats(), ", "))
	}
	if resource == "" {
		resource = DefaultResource
	}
	return newExporter(resource), nil
}

// Timestamp formats seconds as H:MM:SS.mmm. Hours keep counting past a day.
func Timestamp(seconds int64) string {
	return fmt.Sprintf("%d:%02d:%02d.000", seconds/3600, seconds/60%60, seconds%60)
}
