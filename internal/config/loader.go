package config

import (
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FromYAML loads a ProduceSolution from a YAML file at path, the same way
// tabular/reinforcement.FromYaml loads its training config: a scoped
// viper.New() instance (never the package-level global, so loading more
// than one solution concurrently is safe) pointed at the file path,
// unmarshaled directly into the target struct.
func FromYAML(path string) (ProduceSolution, error) {
	sol := Default()

	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")

	if err := vp.ReadInConfig(); err != nil {
		return ProduceSolution{}, fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := vp.Unmarshal(&sol); err != nil {
		return ProduceSolution{}, fmt.Errorf("config: unmarshal %q: %w", path, err)
	}
	return sol, nil
}

// ToYAML marshals sol back to YAML, used both to persist an edited solution
// and to build fixture files in tests.
func ToYAML(sol ProduceSolution) ([]byte, error) {
	b, err := yaml.Marshal(sol)
	if err != nil {
		return nil, fmt.Errorf("config: marshal solution: %w", err)
	}
	return b, nil
}
