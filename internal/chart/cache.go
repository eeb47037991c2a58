package chart

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// WriteFile exports a chart as JSON so a later run can skip analysis.
func WriteFile(path string, c *Chart) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if nil != err {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads an exported chart, re-checking the invariants generation
// guarantees: valid parameters, sorted notes, lanes in range.
func ReadFile(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if nil != err {
		return nil, err
	}
	var c Chart
	if err := json.Unmarshal(data, &c); nil != err {
		return nil, fmt.Errorf("unable to parse chart file: %w", err)
	}
	if err := (Params{Difficulty: c.Difficulty, Lanes: c.Lanes}).Validate(); nil != err {
		return nil, fmt.Errorf("chart file %v: %w", path, err)
	}
	if !sort.SliceIsSorted(c.Notes, func(i, j int) bool { return c.Notes[i].Time < c.Notes[j].Time }) {
		return nil, fmt.Errorf("chart file %v: notes are not sorted", path)
	}
	for _, n := range c.Notes {
		if n.Lane < 0 || n.Lane >= c.Lanes {
			return nil, fmt.Errorf("chart file %v: lane %v out of range", path, n.Lane)
		}
	}
	return &c, nil
}
