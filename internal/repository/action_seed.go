package repository

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/network-actions-api/internal/models"
)

type actionSeed struct {
	Actions []models.Action `yaml:"actions"`
}

// LoadActionSeedFile reads a YAML document of the form `actions: [...]`. An empty
// path yields no records.
func LoadActionSeedFile(path string) ([]models.Action, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read action seed: %w", err)
	}
	return ParseActionSeed(raw)
}

// ParseActionSeed decodes seed records. Every record needs an id.
func ParseActionSeed(raw []byte) ([]models.Action, error) {
	var seed actionSeed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("decode action seed: %w", err)
	}
	seen := make(map[string]struct{}, len(seed.Actions))
	for i, a := range seed.Actions {
		if a.ID == "" {
			return nil, fmt.Errorf("action seed entry %d has no id", i)
		}
		if _, dup := seen[a.ID]; dup {
			return nil, fmt.Errorf("action seed id %q is duplicated", a.ID)
		}
		seen[a.ID] = struct{}{}
	}
	return seed.Actions, nil
}
