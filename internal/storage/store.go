package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/clothsim/internal/automation"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

// Store keeps headless run reports on disk, one directory per run.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Frames     int                `json:"frames"`
	HeldFrames int                `json:"held_frames"`
	Metrics    map[string]float64 `json:"metrics"`
	Error      string             `json:"error,omitempty"`
}

// Series is the per-frame data of a run.
type Series struct {
	Times      []float64
	MeanStress []float64
	PeakStress []float64
	Energy     []float64
}

// Save writes the report and returns the new run id. runErr is recorded when
// the run stopped early.
func (s *Store) Save(sc *automation.Scenario, r *automation.Report, runErr error) (string, error) {
	ts := s.now()
	runID := fmt.Sprintf("%s_s%d_%d", sc.Name, r.Seed, ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Scenario:   sc.Name,
		Timestamp:  ts,
		Seed:       r.Seed,
		Dt:         sc.Dt,
		Frames:     r.Frames,
		HeldFrames: r.HeldFrames,
		Metrics:    finite(r.Metrics),
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"time", "mean_stress", "peak_stress", "energy"}); err != nil {
		return "", err
	}
	for i := range r.Times {
		row := []string{
			strconv.FormatFloat(r.Times[i], 'f', 6, 64),
			strconv.FormatFloat(r.MeanStress[i], 'f', 6, 64),
			strconv.FormatFloat(r.PeakStress[i], 'f', 6, 64),
			strconv.FormatFloat(r.Energy[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// finite drops values JSON cannot encode; a diverged run can leave NaN behind.
func finite(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

// List returns all readable runs, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	series := &Series{}
	for i := 1; i < len(records); i++ {
		vals := make([]float64, 4)
		for j := range vals {
			vals[j], err = strconv.ParseFloat(records[i][j], 64)
			if err != nil {
				return nil, fmt.Errorf("run %s row %d: %w", runID, i, err)
			}
		}
		series.Times = append(series.Times, vals[0])
		series.MeanStress = append(series.MeanStress, vals[1])
		series.PeakStress = append(series.PeakStress, vals[2])
		series.Energy = append(series.Energy, vals[3])
	}
	return series, nil
}
