package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/flowvis/internal/field"
	"github.com/san-kum/flowvis/internal/metrics"
	"github.com/san-kum/flowvis/internal/raster"
)

const (
	metadataFile   = "metadata.json"
	iterationsFile = "iterations.csv"
	framesDir      = "frames"
)

var ErrNoRun = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one recorded headless run.
type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	FieldPath  string             `json:"field_path"`
	Spec       field.Spec         `json:"spec"`
	Integrator string             `json:"integrator"`
	Seed       string             `json:"seed"`
	Density    int                `json:"density"`
	StepSize   float64            `json:"step_size"`
	Reinject   bool               `json:"reinject"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Frames     int                `json:"frames"`
	Iterations int                `json:"iterations"`
	Images     []string           `json:"images,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Create allocates a run directory and returns its id.
func (s *Store) Create(name string) (string, error) {
	if name == "" {
		name = "run"
	}
	id := fmt.Sprintf("%s_%d", strings.ReplaceAll(name, string(filepath.Separator), "_"), time.Now().UnixNano())
	if err := os.MkdirAll(filepath.Join(s.baseDir, id, framesDir), 0755); err != nil {
		return "", err
	}
	return id, nil
}

// SaveFrame writes texture tex of dev as frames/frame_NNNNN.png and returns
// the path relative to the run directory.
func (s *Store) SaveFrame(id string, frame int, dev *raster.Device, tex raster.TextureID) (string, error) {
	rel := filepath.Join(framesDir, fmt.Sprintf("frame_%05d.png", frame))
	if err := dev.SavePNG(tex, filepath.Join(s.baseDir, id, rel)); err != nil {
		return "", err
	}
	return rel, nil
}

// Finish writes the metadata and the per-iteration metric rows of a run.
func (s *Store) Finish(meta RunMetadata, rows []metrics.Row) error {
	runDir := filepath.Join(s.baseDir, meta.ID)
	if _, err := os.Stat(runDir); err != nil {
		return fmt.Errorf("%w: %s", ErrNoRun, meta.ID)
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, iterationsFile))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	if len(rows) == 0 {
		rows = []metrics.Row{}
	}
	return gocsv.MarshalFile(&rows, csvFile)
}

// Save is Create followed by Finish for runs without frames.
func (s *Store) Save(meta RunMetadata, rows []metrics.Row) (string, error) {
	id, err := s.Create(meta.Name)
	if err != nil {
		return "", err
	}
	meta.ID = id
	return id, s.Finish(meta, rows)
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
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

func (s *Store) Load(id string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, id)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadRows(id string) ([]metrics.Row, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, iterationsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, id)
		}
		return nil, err
	}
	defer file.Close()

	var rows []metrics.Row
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []metrics.Row{}, nil
		}
		return nil, err
	}
	return rows, nil
}

// ExportData is a run flattened into one JSON document.
type ExportData struct {
	RunMetadata
	Rows []metrics.Row `json:"rows"`
}

// ExportJSON writes the metadata and rows of a run to w.
func (s *Store) ExportJSON(id string, w io.Writer) error {
	meta, err := s.Load(id)
	if err != nil {
		return err
	}
	rows, err := s.LoadRows(id)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, Rows: rows})
}
