package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Metadata
	Frames []Frame `json:"frames"`
}

// ExportJSON writes the metadata and every frame of a recording to w.
func ExportJSON(w io.Writer, meta Metadata, frames []Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Metadata: meta, Frames: frames})
}
