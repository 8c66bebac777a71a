// Package conscience loads the conscience value profile an agent consults
// during analysis when its alignment card does not declare its own values.
// Profiles are YAML documents, one file per named profile, parsed with
// gopkg.in/yaml.v3.
package conscience

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mnemom/aip/pkg/contracts"
)

//go:embed profiles/default.yaml
var defaultProfileFS embed.FS

type profileDoc struct {
	Values []contracts.ConscienceValue `yaml:"values"`
}

// Default returns the nine-item BOUNDARY/FEAR profile bundled with this core.
func Default() ([]contracts.ConscienceValue, error) {
	data, err := defaultProfileFS.ReadFile("profiles/default.yaml")
	if err != nil {
		return nil, fmt.Errorf("conscience: read default profile: %w", err)
	}
	return parse(data)
}

// LoadFile loads a conscience profile from an operator-supplied YAML file,
// for agents that override the default nine values.
func LoadFile(path string) ([]contracts.ConscienceValue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("conscience: read profile %q: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) ([]contracts.ConscienceValue, error) {
	var doc profileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("conscience: parse profile: %w", err)
	}
	for _, v := range doc.Values {
		if !v.Kind.Valid() {
			return nil, fmt.Errorf("conscience: invalid kind %q on value %q", v.Kind, v.ID)
		}
	}
	return doc.Values, nil
}
