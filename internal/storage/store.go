package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pglowack/astrolab/internal/engine"
	"github.com/pglowack/astrolab/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Speed     float64            `json:"speed"`
	G         float64            `json:"g"`
	Metrics   map[string]float64 `json:"metrics"`
}

// SaveRun writes a run's metadata alongside a long-format body track
// (one row per body per recorded step) and returns the run id.
func (s *Store) SaveRun(scenario string, dt, duration, speed, g float64, seed int64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		Seed:      seed,
		Dt:        dt,
		Duration:  duration,
		Speed:     speed,
		G:         g,
		Metrics:   result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"time", "id", "name", "kind", "x", "y", "vx", "vy", "mass", "radius"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i, view := range result.Views {
		t := strconv.FormatFloat(result.Times[i], 'f', 6, 64)
		for _, b := range view.Bodies {
			row := []string{
				t,
				strconv.FormatUint(b.ID, 10),
				b.Name,
				b.Kind.String(),
				strconv.FormatFloat(b.Pos.X, 'f', 6, 64),
				strconv.FormatFloat(b.Pos.Y, 'f', 6, 64),
				strconv.FormatFloat(b.Vel.X, 'f', 6, 64),
				strconv.FormatFloat(b.Vel.Y, 'f', 6, 64),
				strconv.FormatFloat(b.Mass, 'f', 6, 64),
				strconv.FormatFloat(b.Radius, 'f', 6, 64),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}

	return runID, nil
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries extracts one numeric column of a saved run as a time
// series for a single body, for plotting.
func (s *Store) LoadSeries(runID string, bodyID uint64, column string) ([]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []float64{}, nil
	}

	col := -1
	for i, name := range records[0] {
		if name == column {
			col = i
		}
	}
	if col < 0 {
		return nil, nil, fmt.Errorf("unknown column %q", column)
	}

	id := strconv.FormatUint(bodyID, 10)
	times := make([]float64, 0)
	values := make([]float64, 0)
	for _, record := range records[1:] {
		if len(record) <= col || record[1] != id {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(record[col], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		values = append(values, v)
	}

	return times, values, nil
}

// SaveSnapshot persists a full engine snapshot under a user-chosen
// name in the snapshots subdirectory.
func (s *Store) SaveSnapshot(name string, snap engine.Snapshot) error {
	dir := filepath.Join(s.baseDir, "snapshots")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(filepath.Join(dir, name+".json"))
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func (s *Store) LoadSnapshot(name string) (engine.Snapshot, error) {
	var snap engine.Snapshot
	data, err := os.ReadFile(filepath.Join(s.baseDir, "snapshots", name+".json"))
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, err
	}
	return snap, nil
}

func (s *Store) ListSnapshots() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, "snapshots"))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return names, nil
}
