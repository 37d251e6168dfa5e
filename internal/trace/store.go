package trace

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/coinburst/internal/burst"
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
	ID         string             `json:"id"`
	Label      string             `json:"label,omitempty"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Frames     int                `json:"frames"`
	Bursts     int                `json:"bursts"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	BurstPower float64            `json:"burst_power"`
	Gravity    float64            `json:"gravity"`
	Color      string             `json:"color"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Run is what a headless run hands to the store. Label, when set, names the
// run id instead of the preset.
type Run struct {
	Label   string
	Preset  string
	Seed    int64
	Width   int
	Height  int
	Bursts  int
	Params  burst.Params
	Samples []Sample
	Metrics map[string]float64
}

var header = []string{"frame", "live", "fading", "mean_opacity", "min_life", "mean_height"}

func (s *Store) Save(run *Run) (string, error) {
	name := run.Label
	if name == "" {
		name = run.Preset
	}
	if name == "" {
		name = "run"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Label:      run.Label,
		Preset:     run.Preset,
		Timestamp:  now,
		Seed:       run.Seed,
		Frames:     len(run.Samples),
		Bursts:     run.Bursts,
		Width:      run.Width,
		Height:     run.Height,
		BurstPower: run.Params.BurstPower,
		Gravity:    run.Params.Gravity,
		Color:      run.Params.Color.Hex(),
		Metrics:    run.Metrics,
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
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, sm := range run.Samples {
		row := []string{
			strconv.FormatUint(sm.Frame, 10),
			strconv.Itoa(sm.Live),
			strconv.Itoa(sm.Fading),
			strconv.FormatFloat(sm.MeanOpacity, 'f', 6, 64),
			strconv.FormatFloat(sm.MinLife, 'f', 6, 64),
			strconv.FormatFloat(sm.MeanHeight, 'f', 6, 64),
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

// List returns saved runs, newest first.
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

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		sm, err := parseSample(record)
		if err != nil {
			return nil, fmt.Errorf("%s frames.csv line %d: %w", runID, i+2, err)
		}
		samples = append(samples, sm)
	}
	return samples, nil
}

func parseSample(record []string) (Sample, error) {
	if len(record) != len(header) {
		return Sample{}, fmt.Errorf("want %d fields, got %d", len(header), len(record))
	}
	var (
		sm  Sample
		err error
	)
	if sm.Frame, err = strconv.ParseUint(record[0], 10, 64); err != nil {
		return sm, err
	}
	if sm.Live, err = strconv.Atoi(record[1]); err != nil {
		return sm, err
	}
	if sm.Fading, err = strconv.Atoi(record[2]); err != nil {
		return sm, err
	}
	if sm.MeanOpacity, err = strconv.ParseFloat(record[3], 64); err != nil {
		return sm, err
	}
	if sm.MinLife, err = strconv.ParseFloat(record[4], 64); err != nil {
		return sm, err
	}
	if sm.MeanHeight, err = strconv.ParseFloat(record[5], 64); err != nil {
		return sm, err
	}
	return sm, nil
}
