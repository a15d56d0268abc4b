package store

import (
	"fmt"
	"sort"
)

// MockScenarioStore is an in-memory ScenarioRepository for tests.
type MockScenarioStore struct {
	Scenarios map[string]*Scenario

	LoadError error
	SaveError error
}

// Load returns a copy of the named scenario.
func (m *MockScenarioStore) Load(name string) (*Scenario, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	s, ok := m.Scenarios[name]
	if !ok {
		return nil, fmt.Errorf("scenario %q not found", name)
	}
	clone := *s
	return &clone, nil
}

// Save stores the scenario under its name.
func (m *MockScenarioStore) Save(scenario *Scenario) (string, error) {
	if m.SaveError != nil {
		return "", m.SaveError
	}
	if m.Scenarios == nil {
		m.Scenarios = make(map[string]*Scenario)
	}
	m.Scenarios[scenario.Name] = scenario
	return scenario.Name + ".yaml", nil
}

// List returns the stored names, sorted.
func (m *MockScenarioStore) List() ([]string, error) {
	names := make([]string, 0, len(m.Scenarios))
	for name := range m.Scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
