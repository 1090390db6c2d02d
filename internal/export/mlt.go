package export

import (
	"encoding/xml"
	"io"

	"github.com/Zuo-Peng/slasher/internal/cut"
)

// mltTitle is the fixed title of every generated project.
const mltTitle = "VODinator verson 2021.07.14"

const (
	producerID = "producer0"
	playlistID = "playlist0"
)

type mltDocument struct {
	XMLName  xml.Name    `xml:"mlt"`
	Title    string      `xml:"title,attr"`
	Producer mltProducer `xml:"producer"`
	Playlist mltPlaylist `xml:"playlist"`
}

type mltProducer struct {
	ID         string        `xml:"id,attr"`
	Properties []mltProperty `xml:"property"`
}

type mltProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type mltPlaylist struct {
	ID      string     `xml:"id,attr"`
	Entries []mltEntry `xml:"entry"`
}

type mltEntry struct {
	In       string `xml:"in,attr"`
	Out      string `xml:"out,attr"`
	Producer string `xml:"producer,attr"`
}

// MLT writes an MLT XML project (Shotcut, Kdenlive) with one producer for
// Resource and a playlist holding every interval.
type MLT struct {
	Resource string
}

func (m *MLT) Export(w io.Writer, c cut.Cut) error {
	resource := m.Resource
	if resource == "" {
		resource = DefaultResource
	}

	doc := mltDocument{
		Title: mltTitle,
		Producer: mltProducer{
			ID:         producerID,
			Properties: []mltProperty{{Name: "resource", Value: resource}},
		},
		Playlist: mltPlaylist{ID: playlistID},
	}

	d := c.DurationSeconds()
	for _, iv := range c.Histogram() {
		doc.Playlist.Entries = append(doc.Playlist.Entries, mltEntry{
			In:       Timestamp(iv.Start),
			Out:      Timestamp(iv.Start + d),
			Producer: producerID,
		})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append([]byte(xml.Header), data...)
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
