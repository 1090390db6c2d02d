package export

import (
	"encoding/json"
	"io"

	"github.com/Zuo-Peng/slasher/internal/cut"
)

type jsonCut struct {
	Source    string        `json:"source"`
	Duration  int64         `json:"duration"`
	Delay     int64         `json:"delay"`
	Intervals cut.Histogram `json:"intervals"`
}

// JSON writes the cut itself, for scripting.
func JSON(w io.Writer, c cut.Cut) error {
	data, err := json.MarshalIndent(jsonCut{
		Source:    c.Source(),
		Duration:  c.DurationSeconds(),
		Delay:     int64(c.Delay().Seconds()),
		Intervals: c.Histogram(),
	}, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
