package landscape

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPlan reads a static category plan from a YAML file with a top-level
// categories key.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading categories file %s: %v", ErrIO, path, err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("%w: parsing categories file %s: %v", ErrParse, path, err)
	}
	return &plan, nil
}

// LoadPlanIfExists is LoadPlan, except that a missing file yields a nil plan
// and no error. An empty path is treated as missing.
func LoadPlanIfExists(path string) (*Plan, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: checking categories file %s: %v", ErrIO, path, err)
	}
	return LoadPlan(path)
}
