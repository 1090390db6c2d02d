package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/Zuo-Peng/slasher/internal/cut"
)

// Silence writes one "<start> <duration>" line per interval, the input
// format of ffsilencer.
func Silence(w io.Writer, c cut.Cut) error {
	var b strings.Builder
	d := c.DurationSeconds()
	for _, iv := range c.Histogram() {
		fmt.Fprintf(&b, "%d %d\n", iv.Start, d)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
