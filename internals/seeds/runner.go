package seeds

import (
	"fmt"
	"os"
	"strings"

	school "educa_backend/internals/seeds/schools/schools"
)

// LoadDataset returns the embedded municipal dataset, or the YAML file at path when one is given.
// The result is what the directory writes on first run and on reset.
func LoadDataset(path string) (school.Dataset, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return school.Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return school.Dataset{}, fmt.Errorf("read seed file %s: %w", path, err)
	}
	ds, err := school.SeedFromYAML(raw)
	if err != nil {
		return school.Dataset{}, fmt.Errorf("seed file %s: %w", path, err)
	}
	return ds, nil
}
