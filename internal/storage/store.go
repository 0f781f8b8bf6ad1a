package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/rootsim/internal/kepler"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "orbit.csv"
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
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Timestamp       time.Time          `json:"timestamp"`
	Orbit           kepler.Orbit       `json:"orbit"`
	Dt              float64            `json:"dt"`
	Steps           int                `json:"steps"`
	Solver          string             `json:"solver"`
	Start           string             `json:"start"`
	Accuracy        float64            `json:"accuracy"`
	MaxIterations   int                `json:"max_iterations"`
	TotalIterations int                `json:"total_iterations"`
	Exhausted       int                `json:"exhausted"`
	Metrics         map[string]float64 `json:"metrics"`
}

// Sample is one row of orbit.csv.
type Sample struct {
	Time       float64
	Anomaly    float64
	X, Y       float64
	Iterations int
	Residual   float64
}

func (s *Store) Save(name string, orbit kepler.Orbit, cfg kepler.Config, result *kepler.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", name, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Name:            name,
		Timestamp:       time.Now(),
		Orbit:           orbit,
		Dt:              cfg.Dt,
		Steps:           cfg.Steps,
		Solver:          cfg.Solver,
		Start:           cfg.Start,
		Accuracy:        cfg.Accuracy,
		MaxIterations:   cfg.MaxIterations,
		TotalIterations: result.TotalIterations,
		Exhausted:       result.Exhausted,
		Metrics:         result.Metrics,
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

	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"time", "anomaly", "x", "y", "iterations", "residual"}); err != nil {
		return "", err
	}

	for i := range result.Times {
		row := []string{
			formatFloat(result.Times[i]),
			formatFloat(result.Anomalies[i]),
			formatFloat(result.Positions[i].X),
			formatFloat(result.Positions[i].Y),
			strconv.Itoa(result.Iterations[i]),
			strconv.FormatFloat(result.Residuals[i], 'e', 6, 64),
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

// List returns all stored runs, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
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
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != 6 {
			return nil, fmt.Errorf("%s line %d: expected 6 fields, got %d", samplesFile, i+2, len(record))
		}

		var sm Sample
		vals := []*float64{&sm.Time, &sm.Anomaly, &sm.X, &sm.Y}
		for j, dst := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", samplesFile, i+2, err)
			}
			*dst = v
		}
		if sm.Iterations, err = strconv.Atoi(record[4]); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", samplesFile, i+2, err)
		}
		if sm.Residual, err = strconv.ParseFloat(record[5], 64); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", samplesFile, i+2, err)
		}
		samples = append(samples, sm)
	}

	return samples, nil
}

type ExportData struct {
	Run     RunMetadata `json:"run"`
	Samples []Sample    `json:"samples"`
}

// ExportJSON writes a run's metadata and samples as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Samples: samples})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 9, 64)
}
