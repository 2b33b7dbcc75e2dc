package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a catalog.
type File struct {
	Equations []Equation `yaml:"equations"`
}

// Parse decodes a YAML catalog document without validating it.
func Parse(data []byte) ([]Equation, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	return f.Equations, nil
}

// Load reads a catalog file and validates every entry.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	eqs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return New(eqs...)
}

// LoadOverBuiltin reads a catalog file and overlays it on the built-in
// catalog. An empty path returns the built-in catalog.
func LoadOverBuiltin(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	eqs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Merge(Builtin(), eqs...)
}

// Marshal encodes equations in the catalog file format.
func Marshal(eqs []Equation) ([]byte, error) {
	return yaml.Marshal(File{Equations: eqs})
}
