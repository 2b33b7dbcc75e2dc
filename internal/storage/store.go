package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/eqsolve/internal/resolver"
)

const recordFile = "record.json"

var ErrNotFound = errors.New("storage: record not found")

// Store keeps solve history under baseDir, one directory per record.
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

// Record is one solve attempt. Value is only meaningful when Error is empty.
type Record struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Equation   string             `json:"equation,omitempty"`
	Formula    string             `json:"formula"`
	Unknown    string             `json:"unknown"`
	Bindings   map[string]float64 `json:"bindings"`
	Value      float64            `json:"value"`
	Iterations int                `json:"iterations"`
	Error      string             `json:"error,omitempty"`
}

// NewRecord builds a record from the outcome of a solve.
func NewRecord(equation, formula, unknown string, bindings map[string]float64, res *resolver.Result, err error) Record {
	rec := Record{
		Equation: equation,
		Formula:  formula,
		Unknown:  unknown,
		Bindings: bindings,
	}
	if res != nil {
		rec.Value = res.Value
		rec.Iterations = res.Iterations
	}
	if err != nil {
		rec.Error = err.Error()
		var se *resolver.SolveError
		if errors.As(err, &se) {
			rec.Iterations = se.Iterations
		}
	}
	return rec
}

// Save writes rec under a fresh ID and returns it.
func (s *Store) Save(rec Record) (string, error) {
	rec.ID = uuid.NewString()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.now()
	}
	if math.IsNaN(rec.Value) || math.IsInf(rec.Value, 0) {
		rec.Value = 0
	}

	recDir := filepath.Join(s.baseDir, rec.ID)
	if err := os.MkdirAll(recDir, 0755); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(recDir, recordFile))
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return "", err
	}

	return rec.ID, nil
}

// List returns all records, newest first. Unreadable entries are skipped.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, err
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		records = append(records, *rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].ID < records[j].ID
		}
		return records[i].Timestamp.After(records[j].Timestamp)
	})

	return records, nil
}

func (s *Store) Load(id string) (*Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	data, err := os.ReadFile(filepath.Join(s.baseDir, id, recordFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}

	return &rec, nil
}

// Clear removes every record and returns how many were deleted.
func (s *Store) Clear() (int, error) {
	records, err := s.List()
	if err != nil {
		return 0, err
	}
	for _, rec := range records {
		if err := os.RemoveAll(filepath.Join(s.baseDir, rec.ID)); err != nil {
			return 0, err
		}
	}
	return len(records), nil
}

var csvHeader = []string{"id", "timestamp", "equation", "formula", "unknown", "bindings", "value", "iterations", "error"}

func (s *Store) ExportCSV(w io.Writer) error {
	records, err := s.List()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.ID,
			rec.Timestamp.Format(time.RFC3339),
			rec.Equation,
			rec.Formula,
			rec.Unknown,
			formatBindings(rec.Bindings),
			strconv.FormatFloat(rec.Value, 'g', -1, 64),
			strconv.Itoa(rec.Iterations),
			rec.Error,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Store) ExportJSON(w io.Writer) error {
	records, err := s.List()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// formatBindings renders bindings as "a=1;b=2" in key order.
func formatBindings(bindings map[string]float64) string {
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.FormatFloat(bindings[k], 'g', -1, 64)
	}
	return strings.Join(parts, ";")
}
