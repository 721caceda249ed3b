package funnel

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// rawDefinition is the on-disk YAML shape.
//
//	steps:
//	  - {key: welcome, title: Welcome}
//	modes:
//	  overall: 0
type rawDefinition struct {
	Steps []StepTitle    `yaml:"steps"`
	Modes map[string]int `yaml:"modes"`
}

// LoadDefinition reads a funnel definition from a YAML file. An empty path returns
// DefaultDefinition so deployments only need the file to override the built-in funnel.
func LoadDefinition(path string) (Definition, error) {
	if path == "" {
		return DefaultDefinition(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("reading funnel definition %s: %w", path, err)
	}
	return ParseDefinition(data)
}

// ParseDefinition parses and validates YAML definition bytes.
func ParseDefinition(data []byte) (Definition, error) {
	var raw rawDefinition
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Definition{}, fmt.Errorf("parsing funnel definition: %w", err)
	}

	if len(raw.Steps) == 0 {
		return Definition{}, fmt.Errorf("funnel definition has no steps")
	}

	seen := make(map[Step]struct{}, len(raw.Steps))
	for i, st := range raw.Steps {
		if st.Key == "" {
			return Definition{}, fmt.Errorf("funnel step %d: key must not be empty", i)
		}
		if st.Title == "" {
			return Definition{}, fmt.Errorf("funnel step %q: title must not be empty", st.Key)
		}
		if _, dup := seen[st.Key]; dup {
			return Definition{}, fmt.Errorf("funnel step %q: duplicate key", st.Key)
		}
		seen[st.Key] = struct{}{}
	}

	if len(raw.Modes) == 0 {
		return Definition{}, fmt.Errorf("funnel definition has no modes")
	}

	modes := make(map[Mode]int, len(raw.Modes))
	for name, offset := range raw.Modes {
		if offset < 0 || offset >= len(raw.Steps) {
			return Definition{}, fmt.Errorf("funnel mode %q: offset %d outside 0..%d", name, offset, len(raw.Steps)-1)
		}
		modes[Mode(name)] = offset
	}

	return Definition{Sequence: raw.Steps, Modes: modes}, nil
}
