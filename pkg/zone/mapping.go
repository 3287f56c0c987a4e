package zone

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mapping routes recipient row columns to the zones their values fill. One
// column may feed several zones, for example the same guest name stamped on
// the front and the back page. A nil Mapping means column names are zone ids.
type Mapping map[string][]string

// ZonesFor returns the zone ids a column populates, nil when the column is
// not mapped.
func (m Mapping) ZonesFor(col string) []string { return m[col] }

// ColumnFor returns the first column, in the given order, that feeds the
// zone id. Used for output-name derivation.
func (m Mapping) ColumnFor(zoneID string, columns []string) (string, bool) {
	for _, col := range columns {
		for _, id := range m[col] {
			if id == zoneID {
				return col, true
			}
		}
	}
	return "", false
}

// UnmarshalYAML accepts both the scalar shorthand and explicit id lists:
//
//	guest_name: front_name
//	venue: [front_venue, back_venue]
func (m *Mapping) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("mapping must be a map of column to zone id(s), got %s", value.Tag)
	}
	out := make(Mapping, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var col string
		if err := value.Content[i].Decode(&col); err != nil {
			return fmt.Errorf("invalid mapping key: %w", err)
		}
		val := value.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			var id string
			if err := val.Decode(&id); err != nil {
				return fmt.Errorf("column %q: %w", col, err)
			}
			out[col] = []string{id}
		case yaml.SequenceNode:
			var ids []string
			if err := val.Decode(&ids); err != nil {
				return fmt.Errorf("column %q: %w", col, err)
			}
			out[col] = ids
		default:
			return fmt.Errorf("column %q must map to a zone id or a list of ids", col)
		}
	}
	*m = out
	return nil
}

// UnmarshalJSON mirrors the YAML leniency for JSON mapping payloads.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Mapping, len(raw))
	for col, v := range raw {
		var id string
		if err := json.Unmarshal(v, &id); err == nil {
			out[col] = []string{id}
			continue
		}
		var ids []string
		if err := json.Unmarshal(v, &ids); err != nil {
			return fmt.Errorf("column %q must map to a zone id or a list of ids", col)
		}
		out[col] = ids
	}
	*m = out
	return nil
}

// LoadMapping reads a column to zone mapping from a YAML (or JSON) file.
func LoadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping %s: %w", path, err)
	}
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse mapping %s: %w", path, err)
	}
	return m, nil
}
