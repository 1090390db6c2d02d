package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/Zuo-Peng/slasher/internal/cut"
)

// FFmpeg writes a filter_complex script that trims every interval out of
// the first input and concatenates them:
//
//	ffmpeg -i in.mp4 -filter_complex_script cut.txt -map [outv] -map [outa] out.mp4
func FFmpeg(w io.Writer, c cut.Cut) error {
	var b strings.Builder
	var pairs strings.Builder

	d := c.DurationSeconds()
	h := c.Histogram()
	for i, iv := range h {
		end := iv.Start + d
		fmt.Fprintf(&b, "[0:v]trim=start=%d:end=%d,setpts=PTS-STARTPTS,format=yuv420p[%dv];\n", iv.Start, end, i)
		fmt.Fprintf(&b, "[0:a]atrim=start=%d:end=%d,asetpts=PTS-STARTPTS[%da];\n", iv.Start, end, i)
		fmt.Fprintf(&pairs, "[%dv][%da]", i, i)
	}
	fmt.Fprintf(&b, "%sconcat=n=%d:v=1:a=1[outv][outa]\n", pairs.String(), len(h))

	_, err := io.WriteString(w, b.String())
	return err
}
