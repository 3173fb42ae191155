package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SuiteFile describes which groups to run and with which parameters,
// in the spirit of a testng.xml suite definition.
type SuiteFile struct {
	Name       string            `yaml:"name"`
	Parameters map[string]string `yaml:"parameters"`
	Groups     SuiteGroups       `yaml:"groups"`
}

// SuiteGroups lists included and excluded groups
type SuiteGroups struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// DefaultSuite is used when no suite file is given
func DefaultSuite() *SuiteFile {
	return &SuiteFile{
		Name:       "OpenCart Suite",
		Parameters: map[string]string{},
	}
}

// LoadSuiteFile reads and validates a YAML suite definition
func LoadSuiteFile(path string) (*SuiteFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	return ParseSuite(data)
}

// ParseSuite decodes a YAML suite definition
func ParseSuite(data []byte) (*SuiteFile, error) {
	suite := DefaultSuite()
	if err := yaml.Unmarshal(data, suite); err != nil {
		return nil, fmt.Errorf("failed to parse suite file: %w", err)
	}
	if suite.Name == "" {
		return nil, fmt.Errorf("suite name is required")
	}
	if suite.Parameters == nil {
		suite.Parameters = map[string]string{}
	}
	for _, g := range suite.Groups.Include {
		for _, x := range suite.Groups.Exclude {
			if strings.EqualFold(g, x) {
				return nil, fmt.Errorf("group %q is both included and excluded", g)
			}
		}
	}
	return suite, nil
}

// Parameter returns a suite parameter or def when it is not set
func (s *SuiteFile) Parameter(name, def string) string {
	if v, ok := s.Parameters[name]; ok && v != "" {
		return v
	}
	return def
}
