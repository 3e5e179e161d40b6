package dungeon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/dungeon/internal/game/sampler"
)

// Tables holds the weighted distributions that drive generation.
type Tables struct {
	// DoorCounts is indexed by the number of free candidate sides (1-3) and
	// weights how many of them become doors. Index 0 is unused: with no free
	// side there is nothing to choose.
	DoorCounts [4][]sampler.Weighted[int]
	// EnemyCounts weights how many enemies a new room receives.
	EnemyCounts []sampler.Weighted[int]
}

// DefaultTables returns the stock distributions.
func DefaultTables() Tables {
	return Tables{
		DoorCounts: [4][]sampler.Weighted[int]{
			1: {{Value: 0, Weight: 0.25}, {Value: 1, Weight: 0.75}},
			2: {{Value: 0, Weight: 0.15}, {Value: 1, Weight: 0.35}, {Value: 2, Weight: 0.5}},
			3: {{Value: 0, Weight: 0.1}, {Value: 1, Weight: 0.3}, {Value: 2, Weight: 0.5}, {Value: 3, Weight: 0.1}},
		},
		EnemyCounts: []sampler.Weighted[int]{
			{Value: 0, Weight: 0.3},
			{Value: 1, Weight: 0.4},
			{Value: 2, Weight: 0.2},
			{Value: 3, Weight: 0.1},
		},
	}
}

// DoorCountDistribution returns the distribution for the given number of
// free candidate sides.
//
// Postcondition: Returns (nil, false) when candidates is 0 or out of range.
func (t Tables) DoorCountDistribution(candidates int) ([]sampler.Weighted[int], bool) {
	if candidates < 1 || candidates >= len(t.DoorCounts) {
		return nil, false
	}
	return t.DoorCounts[candidates], true
}

// Validate checks that every distribution is samplable and that no door
// count exceeds its candidate count.
//
// Postcondition: Returns nil if valid, or an error describing all violations.
func (t Tables) Validate() error {
	var errs []string
	for k := 1; k < len(t.DoorCounts); k++ {
		dist := t.DoorCounts[k]
		if err := sampler.Validate(dist); err != nil {
			errs = append(errs, fmt.Sprintf("door_counts[%d]: %v", k, err))
			continue
		}
		for _, w := range dist {
			if w.Value < 0 || w.Value > k {
				errs = append(errs, fmt.Sprintf("door_counts[%d]: value %d must be in [0, %d]", k, w.Value, k))
			}
		}
	}
	if err := sampler.Validate(t.EnemyCounts); err != nil {
		errs = append(errs, fmt.Sprintf("enemy_counts: %v", err))
	}
	for _, w := range t.EnemyCounts {
		if w.Value < 0 {
			errs = append(errs, fmt.Sprintf("enemy_counts: value %d must be >= 0", w.Value))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("tables: %s", strings.Join(errs, "; "))
	}
	return nil
}

// yamlTablesFile is the top-level YAML structure for table files.
type yamlTablesFile struct {
	Tables yamlTables `yaml:"tables"`
}

// yamlTables is the YAML representation of Tables. Omitted sections keep
// their default distribution.
type yamlTables struct {
	DoorCounts  map[int][]yamlWeight `yaml:"door_counts"`
	EnemyCounts []yamlWeight         `yaml:"enemy_counts"`
}

// yamlWeight is one weighted entry.
type yamlWeight struct {
	Value  int     `yaml:"value"`
	Weight float64 `yaml:"weight"`
}

// LoadTablesFromFile reads and validates a tables YAML file.
//
// Precondition: path must point to a readable YAML file.
// Postcondition: Returns validated Tables or a non-nil error.
func LoadTablesFromFile(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("reading tables file %s: %w", path, err)
	}
	return LoadTablesFromBytes(data)
}

// LoadTablesFromBytes parses and validates tables from YAML bytes, starting
// from DefaultTables.
//
// Postcondition: Returns validated Tables or a non-nil error.
func LoadTablesFromBytes(data []byte) (Tables, error) {
	var file yamlTablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Tables{}, fmt.Errorf("parsing tables YAML: %w", err)
	}

	t := DefaultTables()
	for k, entries := range file.Tables.DoorCounts {
		if k < 1 || k >= len(t.DoorCounts) {
			return Tables{}, fmt.Errorf("door_counts: candidate count %d must be in [1, %d]", k, len(t.DoorCounts)-1)
		}
		t.DoorCounts[k] = convertYAMLWeights(entries)
	}
	if file.Tables.EnemyCounts != nil {
		t.EnemyCounts = convertYAMLWeights(file.Tables.EnemyCounts)
	}

	if err := t.Validate(); err != nil {
		return Tables{}, fmt.Errorf("validating tables: %w", err)
	}
	return t, nil
}

func convertYAMLWeights(entries []yamlWeight) []sampler.Weighted[int] {
	out := make([]sampler.Weighted[int], len(entries))
	for i, e := range entries {
		out[i] = sampler.Weighted[int]{Value: e.Value, Weight: e.Weight}
	}
	return out
}
