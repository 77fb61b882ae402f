package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile describes which tags make up a house record and how the output
// columns are named.
type Profile struct {
	// HouseNameKey marks an entity as a named house
	HouseNameKey string `yaml:"house_name_key"`
	// PreviousNameKeys hold former names joined against HouseNameKey
	PreviousNameKeys []string `yaml:"previous_name_keys"`
	// NameColumn is the header of the name column
	NameColumn string `yaml:"name_column"`
	// Auxiliary tags appended to each record, in column order
	Auxiliary []Column `yaml:"auxiliary"`
	// CoordinateColumns are the easting and northing headers
	CoordinateColumns []string `yaml:"coordinate_columns"`
	// Filter restricts which entities are considered at all
	Filter *FilterConfig `yaml:"filter,omitempty"`
}

// Column maps a tag key to an output column
type Column struct {
	Key    string `yaml:"key"`
	Column string `yaml:"column"`
}

// Default returns the profile used when no file is given: UK address tags
// with Ordnance Survey grid columns.
func Default() *Profile {
	return &Profile{
		HouseNameKey:     "addr:housename",
		PreviousNameKeys: []string{"addr:previousname", "old_addr:housename"},
		NameColumn:       "Name",
		Auxiliary: []Column{
			{Key: "addr:postcode", Column: "Postcode"},
			{Key: "addr:street", Column: "Road"},
		},
		CoordinateColumns: []string{"OSE", "OSN"},
	}
}

// Load reads a profile from a YAML file. Fields left out keep their
// default values.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML profile on top of the defaults
func Parse(data []byte) (*Profile, error) {
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the profile for empty or repeated keys
func (p *Profile) Validate() error {
	if p.HouseNameKey == "" {
		return fmt.Errorf("house_name_key must not be empty")
	}
	if len(p.CoordinateColumns) != 2 {
		return fmt.Errorf("coordinate_columns needs exactly 2 names, got %d", len(p.CoordinateColumns))
	}
	seen := make(map[string]bool, len(p.Auxiliary))
	for i, c := range p.Auxiliary {
		if c.Key == "" {
			return fmt.Errorf("auxiliary[%d]: key must not be empty", i)
		}
		if seen[c.Key] {
			return fmt.Errorf("auxiliary key %q listed twice", c.Key)
		}
		seen[c.Key] = true
	}
	for i, k := range p.PreviousNameKeys {
		if k == "" {
			return fmt.Errorf("previous_name_keys[%d] must not be empty", i)
		}
	}
	return nil
}

// AuxiliaryKeys returns the auxiliary tag keys in column order
func (p *Profile) AuxiliaryKeys() []string {
	keys := make([]string, len(p.Auxiliary))
	for i, c := range p.Auxiliary {
		keys[i] = c.Key
	}
	return keys
}

// Header returns the output header: name, auxiliary columns, coordinates
func (p *Profile) Header() []string {
	header := make([]string, 0, len(p.Auxiliary)+3)
	header = append(header, p.NameColumn)
	for _, c := range p.Auxiliary {
		name := c.Column
		if name == "" {
			name = c.Key
		}
		header = append(header, name)
	}
	return append(header, p.CoordinateColumns[0], p.CoordinateColumns[1])
}

// EntityFilter returns the filter built from the profile
func (p *Profile) EntityFilter() *Filter {
	return NewFilter(p.Filter)
}
