// Package store loads and saves budget scenarios as YAML files.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/budget-sim/internal/logging"
	"fjacquet/budget-sim/internal/models"

	"gopkg.in/yaml.v3"
)

// Scenario is a named, reusable BudgetInput.
type Scenario struct {
	Name               string `yaml:"name,omitempty"`
	Description        string `yaml:"description,omitempty"`
	models.BudgetInput `yaml:",inline"`
}

// ScenarioRepository is the interface the commands depend on.
type ScenarioRepository interface {
	Load(name string) (*Scenario, error)
	Save(scenario *Scenario) (string, error)
	List() ([]string, error)
}

// ScenarioStore keeps scenarios as <name>.yaml files in a directory.
type ScenarioStore struct {
	Directory string
	logger    logging.Logger
}

// NewScenarioStore creates a store rooted at directory. An empty directory
// means "scenarios" under the current directory.
func NewScenarioStore(directory string, logger logging.Logger) *ScenarioStore {
	if directory == "" {
		directory = "scenarios"
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &ScenarioStore{Directory: directory, logger: logger}
}

// FindScenarioFile looks for a scenario in standard locations. name may be
// a path to a file or a bare scenario name.
func (s *ScenarioStore) FindScenarioFile(name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
		return "", os.ErrNotExist
	}

	file := name
	if filepath.Ext(file) == "" {
		file += ".yaml"
	}

	locations := []string{
		file,                          // as given, relative to the current directory
		filepath.Join(s.Directory, file),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "budget-sim", "scenarios", file))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadFile reads a scenario from an explicit path.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading scenario file: %w", err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("error parsing scenario file %s: %w", path, err)
	}
	if scenario.Name == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &scenario, nil
}

// Load resolves and reads a scenario.
func (s *ScenarioStore) Load(name string) (*Scenario, error) {
	path, err := s.FindScenarioFile(name)
	if err != nil {
		s.logger.Warn("Scenario file not found",
			logging.Field{Key: logging.FieldInputFile, Value: name})
		return nil, fmt.Errorf("scenario %q not found: %w", name, err)
	}

	scenario, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Loaded scenario",
		logging.Field{Key: logging.FieldInputFile, Value: path})
	return scenario, nil
}

// Save writes scenario to <directory>/<name>.yaml and returns the path.
func (s *ScenarioStore) Save(scenario *Scenario) (string, error) {
	if scenario == nil {
		return "", errors.New("cannot save nil scenario")
	}
	if scenario.Name == "" || strings.ContainsAny(scenario.Name, `/\`) || strings.HasPrefix(scenario.Name, ".") {
		return "", fmt.Errorf("invalid scenario name: %q", scenario.Name)
	}

	if err := os.MkdirAll(s.Directory, models.PermissionDirectory); err != nil {
		return "", fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(scenario)
	if err != nil {
		return "", fmt.Errorf("error marshaling scenario: %w", err)
	}

	path := filepath.Join(s.Directory, scenario.Name+".yaml")
	if err := os.WriteFile(path, data, models.PermissionScenarioFile); err != nil {
		return "", fmt.Errorf("error writing scenario file: %w", err)
	}
	s.logger.Info("Saved scenario",
		logging.Field{Key: logging.FieldOutputFile, Value: path})
	return path, nil
}

// List returns the names of the scenarios in the store directory.
func (s *ScenarioStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("error reading scenario directory: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}
