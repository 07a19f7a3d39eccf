package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/orrery/internal/orrery"
)

var ErrNoFrames = errors.New("storage: recording has no frames")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Metadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Frames    int                `json:"frames"`
	Bodies    []string           `json:"bodies"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Frame is one recorded row.
type Frame struct {
	Tick      int                   `json:"tick"`
	Time      float64               `json:"time"`
	Authority string                `json:"authority"`
	Focused   string                `json:"focused,omitempty"`
	Camera    mgl64.Vec3            `json:"camera"`
	Target    mgl64.Vec3            `json:"target"`
	Bodies    map[string]mgl64.Vec3 `json:"bodies"`
}

var axes = [3]string{"x", "y", "z"}

func vecHeader(prefix string) []string {
	out := make([]string, 3)
	for i, a := range axes {
		out[i] = prefix + "_" + a
	}
	return out
}

func formatVec(v mgl64.Vec3) []string {
	return []string{
		strconv.FormatFloat(v.X(), 'f', 6, 64),
		strconv.FormatFloat(v.Y(), 'f', 6, 64),
		strconv.FormatFloat(v.Z(), 'f', 6, 64),
	}
}

// Save writes metadata.json and frames.csv under a new recording directory
// and returns its id.
func (s *Store) Save(meta Metadata, frames []orrery.Snapshot) (string, error) {
	if len(frames) == 0 {
		return "", ErrNoFrames
	}

	name := meta.Scenario
	if name == "" {
		name = "session"
	}
	meta.ID = fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
	meta.Timestamp = time.Now()
	meta.Frames = len(frames)
	meta.Bodies = meta.Bodies[:0]
	for _, b := range frames[0].Bodies {
		meta.Bodies = append(meta.Bodies, b.ID)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	header := []string{"tick", "time", "authority", "focused"}
	header = append(header, vecHeader("camera")...)
	header = append(header, vecHeader("target")...)
	for _, id := range meta.Bodies {
		header = append(header, vecHeader(id)...)
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Tick),
			strconv.FormatFloat(f.Time, 'f', 6, 64),
			f.Authority,
			f.Focused,
		}
		row = append(row, formatVec(f.Camera)...)
		row = append(row, formatVec(f.Target)...)
		for _, b := range f.Bodies {
			row = append(row, formatVec(b.Position)...)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every recording, newest first.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	runs := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(id string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadFrames(id string) ([]Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Frame{}, nil
	}

	header := records[0]
	var bodies []string
	for i := 10; i+2 < len(header); i += 3 {
		bodies = append(bodies, strings.TrimSuffix(header[i], "_x"))
	}

	frames := make([]Frame, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 10 {
			continue
		}
		var f Frame
		if f.Tick, err = strconv.Atoi(rec[0]); err != nil {
			continue
		}
		if f.Time, err = strconv.ParseFloat(rec[1], 64); err != nil {
			continue
		}
		f.Authority = rec[2]
		f.Focused = rec[3]
		f.Camera = parseVec(rec[4:7])
		f.Target = parseVec(rec[7:10])
		f.Bodies = make(map[string]mgl64.Vec3, len(bodies))
		for i, id := range bodies {
			at := 10 + 3*i
			if at+3 > len(rec) {
				break
			}
			f.Bodies[id] = parseVec(rec[at : at+3])
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func parseVec(fields []string) mgl64.Vec3 {
	var v mgl64.Vec3
	for i := range v {
		v[i], _ = strconv.ParseFloat(fields[i], 64)
	}
	return v
}
