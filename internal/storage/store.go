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

	"github.com/google/uuid"
	"github.com/san-kum/eigenpick/internal/config"
	"github.com/san-kum/eigenpick/internal/modal"
)

const (
	metadataFile = "metadata.json"
	modeFile     = "mode.csv"
)

var (
	ErrCorruptRun  = errors.New("storage: corrupt run data")
	ErrInvalidName = errors.New("storage: run name must be a single path element")
)

// checkName rejects names that would resolve outside the base directory.
func checkName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

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
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Timestamp  time.Time      `json:"timestamp"`
	Config     config.Config  `json:"config"`
	Target     config.Complex `json:"target"`
	Eigenvalue config.Complex `json:"eigenvalue"`
	Distance   float64        `json:"distance"`
	Index      int            `json:"index"`
	Converged  int            `json:"converged"`
	Dofs       map[string]int `json:"dofs"`
}

// FieldData is a stored field: dof coordinates and values.
type FieldData struct {
	X      []float64
	Values []complex128
}

// Save writes the selected mode of a run. coords maps a field name ("p",
// "v") to its dof coordinates; missing coordinates are stored as the dof
// index.
func (s *Store) Save(cfg *config.Config, target complex128, mode *modal.Mode, coords map[string][]float64) (string, error) {
	name := cfg.Name
	if name == "" {
		name = "run"
	}
	if err := checkName(name); err != nil {
		return "", err
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d_%s", name, now.Unix(), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       cfg.Name,
		Timestamp:  now,
		Config:     *cfg,
		Target:     config.FromComplex(target),
		Eigenvalue: config.FromComplex(mode.Eigenvalue),
		Distance:   mode.Distance,
		Index:      mode.Index,
		Converged:  mode.Converged,
		Dofs:       map[string]int{"p": mode.P.Len(), "v": mode.V.Len()},
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

	csvFile, err := os.Create(filepath.Join(runDir, modeFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"field", "index", "x", "re", "im"}); err != nil {
		return "", err
	}
	for _, f := range []struct {
		name  string
		field *modal.Field
	}{{"p", mode.P}, {"v", mode.V}} {
		x := coords[f.name]
		for i, val := range f.field.Values {
			xi := float64(i)
			if i < len(x) {
				xi = x[i]
			}
			row := []string{
				f.name,
				strconv.Itoa(i),
				strconv.FormatFloat(xi, 'g', -1, 64),
				strconv.FormatFloat(real(val), 'g', -1, 64),
				strconv.FormatFloat(imag(val), 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if err := checkName(runID); err != nil {
		return nil, err
	}
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

// LoadMode reads the stored fields of a run keyed by field name.
func (s *Store) LoadMode(runID string) (map[string]*FieldData, error) {
	if err := checkName(runID); err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(s.baseDir, runID, modeFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 5

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRun, err)
	}

	fields := make(map[string]*FieldData)
	for n, record := range records {
		if n == 0 {
			continue
		}
		nums := make([]float64, 3)
		for j := range nums {
			v, err := strconv.ParseFloat(record[j+2], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrCorruptRun, n+1, err)
			}
			nums[j] = v
		}

		fd, ok := fields[record[0]]
		if !ok {
			fd = &FieldData{}
			fields[record[0]] = fd
		}
		fd.X = append(fd.X, nums[0])
		fd.Values = append(fd.Values, complex(nums[1], nums[2]))
	}

	return fields, nil
}
