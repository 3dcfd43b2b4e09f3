package schema

import (
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/rarian/internal/metadata"
	"github.com/Aman-CERP/rarian/internal/rarianerrors"
)

// yamlIndexDescription mirrors the source form's tagged-map shape,
// e.g. `{ StemmedTerm: { dbname: title_idx } }` or
// `{ RangeTree: { name: date_idx } }`.
type yamlIndexDescription struct {
	StemmedTerm *yamlStemmedTerm `yaml:"StemmedTerm,omitempty"`
	RangeTree   *yamlRangeTree   `yaml:"RangeTree,omitempty"`
}

type yamlStemmedTerm struct {
	DBName string `yaml:"dbname"`
}

type yamlRangeTree struct {
	Name string `yaml:"name"`
}

type yamlSchema struct {
	Name        string                          `yaml:"name"`
	Description string                          `yaml:"description"`
	Version     [2]uint16                       `yaml:"version"`
	Attributes  map[string]yamlIndexDescription `yaml:"attributes"`
}

// ParseYAML decodes a schema's YAML source form (spec §6).
func ParseYAML(data []byte) (Schema, error) {
	var y yamlSchema
	if err := yaml.Unmarshal(data, &y); err != nil {
		return Schema{}, rarianerrors.New(rarianerrors.ErrCodeYAMLDecode, "failed to parse schema YAML", err)
	}

	attrs := make(map[metadata.AttributeKey]IndexDescription, len(y.Attributes))
	for name, desc := range y.Attributes {
		key, err := metadata.ParseAttributeKey(name)
		if err != nil {
			return Schema{}, err
		}

		switch {
		case desc.StemmedTerm != nil:
			attrs[key] = IndexDescription{Kind: StemmedTerm, Name: desc.StemmedTerm.DBName}
		case desc.RangeTree != nil:
			attrs[key] = IndexDescription{Kind: RangeTree, Name: desc.RangeTree.Name}
		default:
			return Schema{}, rarianerrors.New(rarianerrors.ErrCodeYAMLDecode,
				"attribute "+name+" declares neither StemmedTerm nor RangeTree", nil)
		}
	}

	return Schema{
		Name:        y.Name,
		Description: y.Description,
		Version:     Version{Major: y.Version[0], Minor: y.Version[1]},
		Attributes:  attrs,
	}, nil
}

// ToYAML renders s in the source form ParseYAML accepts.
func ToYAML(s Schema) ([]byte, error) {
	y := yamlSchema{
		Name:        s.Name,
		Description: s.Description,
		Version:     [2]uint16{s.Version.Major, s.Version.Minor},
		Attributes:  make(map[string]yamlIndexDescription, len(s.Attributes)),
	}

	for key, desc := range s.Attributes {
		switch desc.Kind {
		case StemmedTerm:
			y.Attributes[key.String()] = yamlIndexDescription{StemmedTerm: &yamlStemmedTerm{DBName: desc.Name}}
		case RangeTree:
			y.Attributes[key.String()] = yamlIndexDescription{RangeTree: &yamlRangeTree{Name: desc.Name}}
		}
	}

	out, err := yaml.Marshal(y)
	if err != nil {
		return nil, rarianerrors.Wrap(rarianerrors.ErrCodeYAMLDecode, err)
	}
	return out, nil
}
