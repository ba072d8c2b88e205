package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFromFile reads a single Profile from a YAML file.
func LoadFromFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validate policy file %s: %w", path, err)
	}

	return &p, nil
}

// Validate checks structural invariants of a profile.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("policy profile requires a name")
	}
	seen := make(map[OperationKind]bool, len(p.Destructive))
	for _, kind := range p.Destructive {
		if kind == "" {
			return fmt.Errorf("policy profile %s: empty operation kind", p.Name)
		}
		if seen[kind] {
			return fmt.Errorf("policy profile %s: duplicate operation kind %q", p.Name, kind)
		}
		seen[kind] = true
	}
	return nil
}
